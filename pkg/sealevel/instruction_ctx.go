package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/safemath"
)

type InstructionCtx struct {
	programAccounts     []uint64
	instructionAccounts []InstructionAccount
	Data                []byte
}

func (instrCtx *InstructionCtx) Configure(programAccounts []uint64, instructionAccounts []InstructionAccount, instrData []byte) {
	instrCtx.programAccounts = programAccounts
	instrCtx.instructionAccounts = instructionAccounts
	instrCtx.Data = instrData
}

func (instrCtx *InstructionCtx) NumberOfProgramAccounts() uint64 {
	return uint64(len(instrCtx.programAccounts))
}

func (instrCtx *InstructionCtx) NumberOfInstructionAccounts() uint64 {
	return uint64(len(instrCtx.instructionAccounts))
}

func (instrCtx *InstructionCtx) CheckNumOfInstructionAccounts(expectedAtLeast uint64) error {
	if instrCtx.NumberOfInstructionAccounts() < expectedAtLeast {
		return InstrErrNotEnoughAccountKeys
	}
	return nil
}

func (instrCtx *InstructionCtx) IndexOfProgramAccountInTransaction(programAccountIndex uint64) (uint64, error) {
	if programAccountIndex >= instrCtx.NumberOfProgramAccounts() {
		return 0, InstrErrNotEnoughAccountKeys
	}
	return instrCtx.programAccounts[programAccountIndex], nil
}

func (instrCtx *InstructionCtx) IndexOfInstructionAccountInTransaction(instrAcctIdx uint64) (uint64, error) {
	if instrAcctIdx >= instrCtx.NumberOfInstructionAccounts() {
		return 0, InstrErrNotEnoughAccountKeys
	}
	return instrCtx.instructionAccounts[instrAcctIdx].IndexInTransaction, nil
}

// IndexOfInstructionAccount finds the position of pubkey among this
// instruction's accounts.
func (instrCtx *InstructionCtx) IndexOfInstructionAccount(txCtx *TransactionCtx, pubkey solana.PublicKey) (uint64, error) {
	for index, instrAcct := range instrCtx.instructionAccounts {
		key, err := txCtx.KeyOfAccountAtIndex(instrAcct.IndexInTransaction)
		if err == nil && key == pubkey {
			return uint64(index), nil
		}
	}
	return 0, InstrErrMissingAccount
}

func (instrCtx *InstructionCtx) LastProgramKey(txCtx *TransactionCtx) (solana.PublicKey, error) {
	programAccountIndex := safemath.SaturatingSubU64(instrCtx.NumberOfProgramAccounts(), 1)

	index, err := instrCtx.IndexOfProgramAccountInTransaction(programAccountIndex)
	if err != nil {
		return solana.PublicKey{}, err
	}

	return txCtx.KeyOfAccountAtIndex(index)
}

func (instrCtx *InstructionCtx) IsInstructionAccountSigner(instrAcctIdx uint64) (bool, error) {
	if instrAcctIdx >= instrCtx.NumberOfInstructionAccounts() {
		return false, InstrErrMissingAccount
	}
	return instrCtx.instructionAccounts[instrAcctIdx].IsSigner, nil
}

func (instrCtx *InstructionCtx) IsInstructionAccountWritable(instrAcctIdx uint64) (bool, error) {
	if instrAcctIdx >= instrCtx.NumberOfInstructionAccounts() {
		return false, InstrErrMissingAccount
	}
	return instrCtx.instructionAccounts[instrAcctIdx].IsWritable, nil
}

func (instrCtx *InstructionCtx) Signers(txCtx *TransactionCtx) ([]solana.PublicKey, error) {
	var signers []solana.PublicKey
	for _, instrAcct := range instrCtx.instructionAccounts {
		if !instrAcct.IsSigner {
			continue
		}
		key, err := txCtx.KeyOfAccountAtIndex(instrAcct.IndexInTransaction)
		if err != nil {
			return nil, err
		}
		signers = append(signers, key)
	}
	return signers, nil
}

func (instrCtx *InstructionCtx) borrowAccount(txCtx *TransactionCtx, indexInTx uint64, indexInInstr uint64) (*BorrowedAccount, error) {
	acct, err := txCtx.Accounts.borrow(indexInTx)
	if err != nil {
		return nil, err
	}
	return &BorrowedAccount{TxCtx: txCtx, InstrCtx: instrCtx, IndexInTransaction: indexInTx, IndexInInstruction: indexInInstr, Account: acct}, nil
}

func (instrCtx *InstructionCtx) BorrowProgramAccount(txCtx *TransactionCtx, programAcctIdx uint64) (*BorrowedAccount, error) {
	idxInTx, err := instrCtx.IndexOfProgramAccountInTransaction(programAcctIdx)
	if err != nil {
		return nil, err
	}
	return instrCtx.borrowAccount(txCtx, idxInTx, programAcctIdx)
}

func (instrCtx *InstructionCtx) BorrowInstructionAccount(txCtx *TransactionCtx, instrAcctIdx uint64) (*BorrowedAccount, error) {
	idxInTx, err := instrCtx.IndexOfInstructionAccountInTransaction(instrAcctIdx)
	if err != nil {
		return nil, err
	}
	return instrCtx.borrowAccount(txCtx, idxInTx, safemath.SaturatingAddU64(instrCtx.NumberOfProgramAccounts(), instrAcctIdx))
}

func (instrCtx *InstructionCtx) KeyOfInstructionAccount(txCtx *TransactionCtx, instrAcctIdx uint64) (solana.PublicKey, error) {
	idx, err := instrCtx.IndexOfInstructionAccountInTransaction(instrAcctIdx)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return txCtx.KeyOfAccountAtIndex(idx)
}
