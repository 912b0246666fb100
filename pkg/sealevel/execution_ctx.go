package sealevel

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/accounts"
	"go.firedancer.io/echo/pkg/cu"
	"go.firedancer.io/echo/pkg/global"
	"go.firedancer.io/echo/pkg/pda"
	"k8s.io/klog/v2"
)

const MaxSigners = 16

type ExecutionCtx struct {
	Log                Logger
	Accounts           accounts.Accounts
	TransactionContext *TransactionCtx
	GlobalCtx          global.GlobalCtx
	ComputeMeter       cu.ComputeMeter
}

func (execCtx *ExecutionCtx) log(format string, args ...any) {
	if execCtx.Log != nil {
		execCtx.Log.Log(fmt.Sprintf(format, args...))
	}
}

// ProgramLog records a "Program log:" line on behalf of the running program.
func (execCtx *ExecutionCtx) ProgramLog(format string, args ...any) {
	execCtx.log("Program log: "+format, args...)
}

func (execCtx *ExecutionCtx) PrepareInstruction(ix Instruction, signers []solana.PublicKey) ([]InstructionAccount, []uint64, error) {
	txCtx := execCtx.TransactionContext

	ixCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return nil, nil, err
	}

	dedupInstructionAccounts := make([]InstructionAccount, 0)
	duplicateIndices := make([]uint64, 0)

	for instructionAcctIndex, accountMeta := range ix.Accounts {
		indexInTx, err := txCtx.IndexOfAccount(accountMeta.Pubkey)
		if err != nil {
			klog.Errorf("instruction references unknown account %s", accountMeta.Pubkey)
			return nil, nil, InstrErrMissingAccount
		}

		duplicateIndex := -1
		for index, instrAcct := range dedupInstructionAccounts {
			if instrAcct.IndexInTransaction == indexInTx {
				duplicateIndex = index
				break
			}
		}

		if duplicateIndex != -1 {
			duplicateIndices = append(duplicateIndices, uint64(duplicateIndex))
			dedupInstructionAccounts[duplicateIndex].IsSigner = dedupInstructionAccounts[duplicateIndex].IsSigner || accountMeta.IsSigner
			dedupInstructionAccounts[duplicateIndex].IsWritable = dedupInstructionAccounts[duplicateIndex].IsWritable || accountMeta.IsWritable
		} else {
			indexInCaller, err := ixCtx.IndexOfInstructionAccount(txCtx, accountMeta.Pubkey)
			if err != nil {
				klog.Errorf("instruction references account %s not passed to caller", accountMeta.Pubkey)
				return nil, nil, InstrErrMissingAccount
			}
			duplicateIndices = append(duplicateIndices, uint64(len(dedupInstructionAccounts)))

			instrAcct := InstructionAccount{IndexInTransaction: indexInTx,
				IndexInCaller: indexInCaller,
				IndexInCallee: uint64(instructionAcctIndex),
				IsSigner:      accountMeta.IsSigner,
				IsWritable:    accountMeta.IsWritable}

			dedupInstructionAccounts = append(dedupInstructionAccounts, instrAcct)
		}
	}

	for _, instructionAcct := range dedupInstructionAccounts {
		borrowedAcct, err := ixCtx.BorrowInstructionAccount(txCtx, instructionAcct.IndexInCaller)
		if err != nil {
			return nil, nil, err
		}

		// "Read-only in caller cannot become writable in callee"
		if instructionAcct.IsWritable && !borrowedAcct.IsWritable() {
			klog.Errorf("%s: writable privilege escalated", borrowedAcct.Key())
			borrowedAcct.Drop()
			return nil, nil, InstrErrPrivilegeEscalation
		}

		// "To be signed in the callee,
		// it must be either signed in the caller or by the program"
		presentInSigners := false
		for _, addr := range signers {
			if addr == borrowedAcct.Key() {
				presentInSigners = true
				break
			}
		}
		if instructionAcct.IsSigner && !(borrowedAcct.IsSigner() || presentInSigners) {
			klog.Errorf("%s: signer privilege escalated", borrowedAcct.Key())
			borrowedAcct.Drop()
			return nil, nil, InstrErrPrivilegeEscalation
		}
		borrowedAcct.Drop()
	}

	instructionAccounts := make([]InstructionAccount, 0, len(duplicateIndices))
	for _, duplicateIndex := range duplicateIndices {
		instructionAccounts = append(instructionAccounts, dedupInstructionAccounts[duplicateIndex])
	}

	// "Find and validate executables / program accounts"
	calleeProgramId := ix.ProgramId
	programAcctIdx, err := ixCtx.IndexOfInstructionAccount(txCtx, calleeProgramId)
	if err != nil {
		klog.Errorf("unknown program %s", calleeProgramId)
		return nil, nil, InstrErrMissingAccount
	}

	borrowedProgramAcct, err := ixCtx.BorrowInstructionAccount(txCtx, programAcctIdx)
	if err != nil {
		return nil, nil, err
	}
	defer borrowedProgramAcct.Drop()

	if !borrowedProgramAcct.IsExecutable() {
		klog.Errorf("account %s is not executable", calleeProgramId)
		return nil, nil, InstrErrAccountNotExecutable
	}

	return instructionAccounts, []uint64{borrowedProgramAcct.IndexInTransaction}, nil
}

func (execCtx *ExecutionCtx) ProcessInstruction(instrData []byte, instructionAccts []InstructionAccount, programIndices []uint64) error {
	nextInstrCtx, err := execCtx.TransactionContext.NextInstructionCtx()
	if err != nil {
		return err
	}

	nextInstrCtx.Configure(programIndices, instructionAccts, instrData)

	err = execCtx.Push()
	if err != nil {
		return err
	}

	err1 := execCtx.ExecuteInstruction()

	err2 := execCtx.Pop()

	if err1 != nil {
		return err1
	} else if err2 != nil {
		return err2
	}

	return nil
}

func (execCtx *ExecutionCtx) ExecuteInstruction() error {
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	borrowedRootAccount, err := instrCtx.BorrowProgramAccount(txCtx, 0)
	if err != nil {
		klog.Infof("BorrowProgramAccount failed: %s", err)
		return InstrErrUnsupportedProgramId
	}

	programKey := borrowedRootAccount.Key()
	ownerId := borrowedRootAccount.Owner()
	borrowedRootAccount.Drop()

	if ownerId != NativeLoaderAddr {
		klog.Errorf("program %s is not a native program (owner %s)", programKey, ownerId)
		return InstrErrUnsupportedProgramId
	}

	klog.V(2).Infof("resolving native program (%s)", programKey)
	nativeProgramFn, err := resolveNativeProgramById(programKey)
	if err != nil {
		return err
	}

	execCtx.log("Program %s invoke [%d]", programKey, execCtx.StackHeight())
	err = nativeProgramFn(execCtx)
	if err != nil {
		execCtx.log("Program %s failed: %s", programKey, err)
		return err
	}
	execCtx.log("Program %s success", programKey)

	return nil
}

func (execCtx *ExecutionCtx) Push() error {
	txCtx := execCtx.TransactionContext

	idx := txCtx.InstructionTraceLength()
	instrCtx, err := txCtx.InstructionCtxAtIndexInTrace(idx)
	if err != nil {
		return err
	}

	programId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		return InstrErrUnsupportedProgramId
	}

	if txCtx.InstructionCtxStackHeight() != 0 {
		var contains bool
		for level := uint64(0); level < txCtx.InstructionCtxStackHeight(); level++ {
			ic, err := txCtx.InstructionCtxAtNestingLevel(level)
			if err != nil {
				continue
			}
			key, err := ic.LastProgramKey(txCtx)
			if err == nil && key == programId {
				contains = true
				break
			}
		}

		var isLast bool
		ic, err := txCtx.CurrentInstructionCtx()
		if err != nil {
			return err
		}
		key, err := ic.LastProgramKey(txCtx)
		if err == nil && key == programId {
			isLast = true
		}

		if contains && !isLast {
			return InstrErrReentrancyNotAllowed
		}
	}

	return txCtx.Push()
}

func (execCtx *ExecutionCtx) Pop() error {
	return execCtx.TransactionContext.Pop()
}

func (execCtx *ExecutionCtx) StackHeight() uint64 {
	return execCtx.TransactionContext.InstructionCtxStackHeight()
}

func (execCtx *ExecutionCtx) NativeInvoke(instruction Instruction, signers []solana.PublicKey) error {
	err := execCtx.ComputeMeter.Consume(CUInvokeUnits)
	if err != nil {
		return InstrErrComputationalBudgetExceeded
	}

	instrAccts, programIndices, err := execCtx.PrepareInstruction(instruction, signers)
	if err != nil {
		return err
	}

	return execCtx.ProcessInstruction(instruction.Data, instrAccts, programIndices)
}

// NativeInvokeSigned invokes instruction with the program-derived addresses
// of the calling program as additional signers. Each entry of signerSeeds is
// a complete seed list, bump included.
func (execCtx *ExecutionCtx) NativeInvokeSigned(instruction Instruction, signerSeeds [][][]byte) error {
	if len(signerSeeds) > MaxSigners {
		return InstrErrMaxSeedLengthExceeded
	}

	instrCtx, err := execCtx.TransactionContext.CurrentInstructionCtx()
	if err != nil {
		return err
	}
	callerProgramId, err := instrCtx.LastProgramKey(execCtx.TransactionContext)
	if err != nil {
		return err
	}

	signers := make([]solana.PublicKey, 0, len(signerSeeds))
	for _, seeds := range signerSeeds {
		err = execCtx.ComputeMeter.Consume(CUCreateProgramAddressUnits)
		if err != nil {
			return InstrErrComputationalBudgetExceeded
		}
		signer, err := pda.CreateProgramAddress(seeds, callerProgramId)
		if err == pda.ErrMaxSeedLengthExceeded {
			return InstrErrMaxSeedLengthExceeded
		} else if err != nil {
			return InstrErrInvalidSeeds
		}
		signers = append(signers, signer)
	}

	return execCtx.NativeInvoke(instruction, signers)
}
