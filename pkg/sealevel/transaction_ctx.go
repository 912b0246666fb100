package sealevel

import (
	"github.com/gagliardetto/solana-go"
)

type TransactionCtx struct {
	Accounts                 TransactionAccounts
	instructionStack         []uint64
	instructionTrace         []*InstructionCtx
	InstructionStackCapacity uint64
	InstructionTraceCapacity uint64
}

func NewTransactionCtx(txAccts TransactionAccounts, instrStackCapacity uint64, instrTraceCapacity uint64) *TransactionCtx {
	return &TransactionCtx{
		Accounts:                 txAccts,
		instructionTrace:         []*InstructionCtx{new(InstructionCtx)},
		InstructionStackCapacity: instrStackCapacity,
		InstructionTraceCapacity: instrTraceCapacity,
	}
}

func (txCtx *TransactionCtx) KeyOfAccountAtIndex(index uint64) (solana.PublicKey, error) {
	acct, err := txCtx.Accounts.GetAccount(index)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return acct.Key, nil
}

func (txCtx *TransactionCtx) IndexOfAccount(pubkey solana.PublicKey) (uint64, error) {
	for index, acct := range txCtx.Accounts.Accounts {
		if acct.Key == pubkey {
			return uint64(index), nil
		}
	}
	return 0, InstrErrMissingAccount
}

func (txCtx *TransactionCtx) InstructionCtxStackHeight() uint64 {
	return uint64(len(txCtx.instructionStack))
}

func (txCtx *TransactionCtx) InstructionTraceLength() uint64 {
	return uint64(len(txCtx.instructionTrace) - 1)
}

func (txCtx *TransactionCtx) InstructionCtxAtIndexInTrace(idx uint64) (*InstructionCtx, error) {
	if idx >= uint64(len(txCtx.instructionTrace)) {
		return nil, InstrErrCallDepth
	}
	return txCtx.instructionTrace[idx], nil
}

func (txCtx *TransactionCtx) InstructionCtxAtNestingLevel(level uint64) (*InstructionCtx, error) {
	if level >= txCtx.InstructionCtxStackHeight() {
		return nil, InstrErrCallDepth
	}
	return txCtx.InstructionCtxAtIndexInTrace(txCtx.instructionStack[level])
}

func (txCtx *TransactionCtx) CurrentInstructionCtx() (*InstructionCtx, error) {
	if txCtx.InstructionCtxStackHeight() == 0 {
		return nil, InstrErrCallDepth
	}
	return txCtx.InstructionCtxAtNestingLevel(txCtx.InstructionCtxStackHeight() - 1)
}

// NextInstructionCtx returns the trace entry that the next Push will activate.
func (txCtx *TransactionCtx) NextInstructionCtx() (*InstructionCtx, error) {
	return txCtx.instructionTrace[len(txCtx.instructionTrace)-1], nil
}

func (txCtx *TransactionCtx) Push() error {
	if txCtx.InstructionCtxStackHeight() >= txCtx.InstructionStackCapacity {
		return InstrErrCallDepth
	}
	if txCtx.InstructionTraceLength() >= txCtx.InstructionTraceCapacity {
		return InstrErrMaxInstructionTraceLengthExceeded
	}

	txCtx.instructionStack = append(txCtx.instructionStack, txCtx.InstructionTraceLength())
	txCtx.instructionTrace = append(txCtx.instructionTrace, new(InstructionCtx))
	return nil
}

func (txCtx *TransactionCtx) Pop() error {
	if txCtx.InstructionCtxStackHeight() == 0 {
		return InstrErrCallDepth
	}
	txCtx.instructionStack = txCtx.instructionStack[:len(txCtx.instructionStack)-1]
	return nil
}
