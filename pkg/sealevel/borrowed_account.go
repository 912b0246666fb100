package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/accounts"
	"go.firedancer.io/echo/pkg/safemath"
)

const MaxPermittedDataLength = 10 * 1024 * 1024

type BorrowedAccount struct {
	TxCtx              *TransactionCtx
	InstrCtx           *InstructionCtx
	IndexInTransaction uint64
	IndexInInstruction uint64
	Account            *accounts.Account
	dropped            bool
}

// Drop releases the borrow. Safe to call more than once.
func (acct *BorrowedAccount) Drop() {
	if acct.dropped {
		return
	}
	acct.dropped = true
	acct.TxCtx.Accounts.release(acct.IndexInTransaction)
}

func (acct *BorrowedAccount) Key() solana.PublicKey {
	return acct.Account.Key
}

func (acct *BorrowedAccount) Owner() solana.PublicKey {
	return acct.Account.Owner
}

func (acct *BorrowedAccount) Lamports() uint64 {
	return acct.Account.Lamports
}

func (acct *BorrowedAccount) Data() []byte {
	return acct.Account.Data
}

func (acct *BorrowedAccount) Touch() error {
	return acct.TxCtx.Accounts.Touch(acct.IndexInTransaction)
}

func (acct *BorrowedAccount) IsExecutable() bool {
	return acct.Account.Executable
}

func (acct *BorrowedAccount) IsSigner() bool {
	instrCtx := acct.InstrCtx
	if acct.IndexInInstruction < instrCtx.NumberOfProgramAccounts() {
		return false
	}

	instrAcctIdx := safemath.SaturatingSubU64(acct.IndexInInstruction, instrCtx.NumberOfProgramAccounts())
	isSigner, err := instrCtx.IsInstructionAccountSigner(instrAcctIdx)
	if err != nil {
		return false
	}
	return isSigner
}

func (acct *BorrowedAccount) IsWritable() bool {
	instrCtx := acct.InstrCtx
	if acct.IndexInInstruction < instrCtx.NumberOfProgramAccounts() {
		return false
	}

	instrAcctIdx := safemath.SaturatingSubU64(acct.IndexInInstruction, instrCtx.NumberOfProgramAccounts())
	writable, err := instrCtx.IsInstructionAccountWritable(instrAcctIdx)
	if err != nil {
		return false
	}
	return writable
}

func (acct *BorrowedAccount) IsOwnedByCurrentProgram() bool {
	lastProgramKey, err := acct.InstrCtx.LastProgramKey(acct.TxCtx)
	if err != nil {
		return false
	}
	return lastProgramKey == acct.Owner()
}

func (acct *BorrowedAccount) DataCanBeChanged() error {
	if acct.IsExecutable() {
		return InstrErrExecutableDataModified
	}
	if !acct.IsWritable() {
		return InstrErrReadonlyDataModified
	}
	if !acct.IsOwnedByCurrentProgram() {
		return InstrErrExternalAccountDataModified
	}
	return nil
}

// DataMutable returns the account's data region for in-place writes, after
// the same checks SetData performs. The length of the region is fixed.
func (acct *BorrowedAccount) DataMutable() ([]byte, error) {
	err := acct.DataCanBeChanged()
	if err != nil {
		return nil, err
	}
	err = acct.Touch()
	if err != nil {
		return nil, err
	}
	return acct.Account.Data, nil
}

func (acct *BorrowedAccount) SetData(data []byte) error {
	dst, err := acct.DataMutable()
	if err != nil {
		return err
	}
	if len(data) != len(dst) {
		return InstrErrInvalidRealloc
	}
	copy(dst, data)
	return nil
}

func (acct *BorrowedAccount) SetDataLength(newLength uint64) error {
	if uint64(len(acct.Data())) == newLength {
		return nil
	}
	if newLength > MaxPermittedDataLength {
		return InstrErrInvalidRealloc
	}
	err := acct.DataCanBeChanged()
	if err != nil {
		return err
	}
	err = acct.Touch()
	if err != nil {
		return err
	}

	data := make([]byte, newLength)
	copy(data, acct.Account.Data)
	acct.Account.Data = data
	return nil
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

func (acct *BorrowedAccount) SetOwner(owner solana.PublicKey) error {
	if !acct.IsOwnedByCurrentProgram() {
		return InstrErrModifiedProgramId
	}
	if !acct.IsWritable() {
		return InstrErrModifiedProgramId
	}
	if acct.IsExecutable() {
		return InstrErrModifiedProgramId
	}
	if !isZeroed(acct.Data()) {
		return InstrErrModifiedProgramId
	}
	if acct.Owner() == owner {
		return nil
	}
	err := acct.Touch()
	if err != nil {
		return err
	}
	acct.Account.Owner = owner
	return nil
}

func (acct *BorrowedAccount) SetLamports(lamports uint64) error {
	if !acct.IsOwnedByCurrentProgram() && lamports < acct.Lamports() {
		return InstrErrExternalAccountLamportSpend
	}
	if !acct.IsWritable() {
		return InstrErrReadonlyLamportChange
	}
	if acct.IsExecutable() {
		return InstrErrExecutableLamportChange
	}
	if acct.Lamports() == lamports {
		return nil
	}
	err := acct.Touch()
	if err != nil {
		return err
	}
	acct.Account.Lamports = lamports
	return nil
}

func (acct *BorrowedAccount) CheckedAddLamports(lamports uint64) error {
	sum, ok := safemath.CheckedAddU64(acct.Lamports(), lamports)
	if !ok {
		return InstrErrArithmeticOverflow
	}
	return acct.SetLamports(sum)
}

func (acct *BorrowedAccount) CheckedSubLamports(lamports uint64) error {
	diff, ok := safemath.CheckedSubU64(acct.Lamports(), lamports)
	if !ok {
		return InstrErrArithmeticOverflow
	}
	return acct.SetLamports(diff)
}
