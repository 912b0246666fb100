package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/accounts"
	"go.firedancer.io/echo/pkg/cu"
	"go.firedancer.io/echo/pkg/global"
	"k8s.io/klog/v2"
)

const (
	DefaultInstructionStackCapacity = 5
	DefaultInstructionTraceCapacity = 64
)

// NewExecutionCtx sets up a transaction over txAccts. accts backs sysvar
// reads and may be nil when no program needs one.
func NewExecutionCtx(txAccts []accounts.Account, accts accounts.Accounts, globalCtx global.GlobalCtx, log Logger) *ExecutionCtx {
	transactionAccts := NewTransactionAccounts(txAccts)
	txCtx := NewTransactionCtx(*transactionAccts, DefaultInstructionStackCapacity, DefaultInstructionTraceCapacity)
	return &ExecutionCtx{
		Log:                log,
		Accounts:           accts,
		TransactionContext: txCtx,
		GlobalCtx:          globalCtx,
		ComputeMeter:       cu.NewComputeMeter(cu.DefaultComputeBudget),
	}
}

// InstructionAcctsFromAccountMetas resolves top-level account metas against
// the transaction's account list. Duplicate keys share the first position.
func (txCtx *TransactionCtx) InstructionAcctsFromAccountMetas(acctMetas []AccountMeta) ([]InstructionAccount, error) {
	instrAccts := make([]InstructionAccount, 0, len(acctMetas))

	for instrAcctIdx, accountMeta := range acctMetas {
		idxInTx, err := txCtx.IndexOfAccount(accountMeta.Pubkey)
		if err != nil {
			klog.Errorf("instruction references account %s missing from transaction", accountMeta.Pubkey)
			return nil, err
		}

		idxInCallee := uint64(instrAcctIdx)
		for pos, instrAcct := range instrAccts {
			if instrAcct.IndexInTransaction == idxInTx {
				idxInCallee = uint64(pos)
				break
			}
		}

		instrAccts = append(instrAccts, InstructionAccount{
			IndexInTransaction: idxInTx,
			IndexInCaller:      idxInTx,
			IndexInCallee:      idxInCallee,
			IsSigner:           accountMeta.IsSigner,
			IsWritable:         accountMeta.IsWritable,
		})
	}

	return instrAccts, nil
}

// ProcessTopLevelInstruction executes ix as an instruction of the
// transaction itself rather than as a cross-program invocation.
func (execCtx *ExecutionCtx) ProcessTopLevelInstruction(ix Instruction) error {
	txCtx := execCtx.TransactionContext

	instrAccts, err := txCtx.InstructionAcctsFromAccountMetas(ix.Accounts)
	if err != nil {
		return err
	}

	programIdx, err := txCtx.IndexOfAccount(ix.ProgramId)
	if err != nil {
		klog.Errorf("program account %s missing from transaction", ix.ProgramId)
		return InstrErrUnsupportedProgramId
	}

	return execCtx.ProcessInstruction(ix.Data, instrAccts, []uint64{programIdx})
}

// ProcessTransaction runs instrs in order. If any instruction fails, every
// account is restored to its state before the first instruction and the
// index of the failing instruction is returned with the error.
func (execCtx *ExecutionCtx) ProcessTransaction(instrs []Instruction) (int, error) {
	txAccts := &execCtx.TransactionContext.Accounts
	snapshot := txAccts.Snapshot()

	for idx, ix := range instrs {
		err := execCtx.ProcessTopLevelInstruction(ix)
		if err != nil {
			klog.V(2).Infof("instruction %d failed, rolling back: %s", idx, err)
			txAccts.Restore(snapshot)
			return idx, err
		}
	}

	return len(instrs), nil
}

// AccountByKey returns the transaction's current copy of the account at key.
func (txCtx *TransactionCtx) AccountByKey(key solana.PublicKey) (*accounts.Account, error) {
	idx, err := txCtx.IndexOfAccount(key)
	if err != nil {
		return nil, err
	}
	return txCtx.Accounts.GetAccount(idx)
}
