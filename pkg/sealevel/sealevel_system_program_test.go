package sealevel

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/echo/pkg/accounts"
	"go.firedancer.io/echo/pkg/cu"
	"go.firedancer.io/echo/pkg/pda"
)

func TestExecute_Tx_System_Program_CreateAccount_Success(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)

	fundingPubkey := newTestPubkey(t)
	fundingAcct := accounts.Account{Key: fundingPubkey, Lamports: 10000, Owner: SystemProgramAddr}

	newPubkey := newTestPubkey(t)
	newAcct := accounts.Account{Key: newPubkey, Owner: SystemProgramAddr}

	owner := newTestPubkey(t)

	execCtx, log := newTestExecCtx(t, []accounts.Account{systemProgramAcct, fundingAcct, newAcct}, DefaultRent())

	ix := NewCreateAccountInstruction(fundingPubkey, newPubkey, 1234, 64, owner)
	_, err := execCtx.ProcessTransaction([]Instruction{ix})
	require.NoError(t, err)

	newAcctPost, err := execCtx.TransactionContext.Accounts.GetAccount(2)
	require.NoError(t, err)

	// new account has lamports, space and owner as expected
	assert.Equal(t, uint64(1234), newAcctPost.Lamports)
	assert.Equal(t, make([]byte, 64), newAcctPost.Data)
	assert.Equal(t, owner, newAcctPost.Owner)

	fundingAcctPost, err := execCtx.TransactionContext.Accounts.GetAccount(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000-1234), fundingAcctPost.Lamports)

	assert.Contains(t, log.Logs, "Program 11111111111111111111111111111111 invoke [1]")
	assert.Contains(t, log.Logs, "Program 11111111111111111111111111111111 success")
}

func TestExecute_Tx_System_Program_CreateAccount_AlreadyInUse(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)

	fundingPubkey := newTestPubkey(t)
	fundingAcct := accounts.Account{Key: fundingPubkey, Lamports: 10000, Owner: SystemProgramAddr}

	newPubkey := newTestPubkey(t)
	newAcct := accounts.Account{Key: newPubkey, Lamports: 1, Owner: SystemProgramAddr}

	execCtx, _ := newTestExecCtx(t, []accounts.Account{systemProgramAcct, fundingAcct, newAcct}, DefaultRent())

	ix := NewCreateAccountInstruction(fundingPubkey, newPubkey, 1234, 64, newTestPubkey(t))
	_, err := execCtx.ProcessTransaction([]Instruction{ix})
	assert.Equal(t, SystemProgErrAccountAlreadyInUse, err)
	assert.Equal(t, InstrErrCodeCustom, ErrorCode(err))
}

func TestExecute_Tx_System_Program_CreateAccount_InsufficientFunds_RollsBack(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)

	fundingPubkey := newTestPubkey(t)
	fundingAcct := accounts.Account{Key: fundingPubkey, Lamports: 100, Owner: SystemProgramAddr}

	newPubkey := newTestPubkey(t)
	newAcct := accounts.Account{Key: newPubkey, Owner: SystemProgramAddr}

	execCtx, _ := newTestExecCtx(t, []accounts.Account{systemProgramAcct, fundingAcct, newAcct}, DefaultRent())

	ix := NewCreateAccountInstruction(fundingPubkey, newPubkey, 1234, 64, newTestPubkey(t))
	failedIdx, err := execCtx.ProcessTransaction([]Instruction{ix})
	assert.Equal(t, 0, failedIdx)
	assert.Equal(t, SystemProgErrResultWithNegativeLamports, err)

	// allocate and assign ran before the transfer failed; none of it is kept
	newAcctPost, err := execCtx.TransactionContext.AccountByKey(newPubkey)
	require.NoError(t, err)
	assert.Empty(t, newAcctPost.Data)
	assert.Equal(t, SystemProgramAddr, newAcctPost.Owner)
}

func TestExecute_Tx_System_Program_CreateAccount_MissingSignature(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)

	fundingPubkey := newTestPubkey(t)
	fundingAcct := accounts.Account{Key: fundingPubkey, Lamports: 10000, Owner: SystemProgramAddr}

	newPubkey := newTestPubkey(t)
	newAcct := accounts.Account{Key: newPubkey, Owner: SystemProgramAddr}

	execCtx, _ := newTestExecCtx(t, []accounts.Account{systemProgramAcct, fundingAcct, newAcct}, DefaultRent())

	ix := NewCreateAccountInstruction(fundingPubkey, newPubkey, 1234, 64, newTestPubkey(t))
	ix.Accounts[1].IsSigner = false
	_, err := execCtx.ProcessTransaction([]Instruction{ix})
	assert.Equal(t, InstrErrMissingRequiredSignature, err)
}

func TestExecute_Tx_System_Program_Transfer_Success(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)

	fromPubkey := newTestPubkey(t)
	fromAcct := accounts.Account{Key: fromPubkey, Lamports: 5000, Owner: SystemProgramAddr}

	toPubkey := newTestPubkey(t)
	toAcct := accounts.Account{Key: toPubkey, Lamports: 10, Owner: SystemProgramAddr}

	execCtx, _ := newTestExecCtx(t, []accounts.Account{systemProgramAcct, fromAcct, toAcct}, DefaultRent())

	_, err := execCtx.ProcessTransaction([]Instruction{NewTransferInstruction(fromPubkey, toPubkey, 1000)})
	require.NoError(t, err)

	fromPost, err := execCtx.TransactionContext.AccountByKey(fromPubkey)
	require.NoError(t, err)
	toPost, err := execCtx.TransactionContext.AccountByKey(toPubkey)
	require.NoError(t, err)

	assert.Equal(t, uint64(4000), fromPost.Lamports)
	assert.Equal(t, uint64(1010), toPost.Lamports)
}

func newAssignInstruction(t *testing.T, acctPubkey, owner solana.PublicKey, signed bool) Instruction {
	buf := new(bytes.Buffer)
	assign := SystemInstrAssign{Owner: owner}
	require.NoError(t, assign.MarshalWithEncoder(bin.NewBinEncoder(buf)))
	return Instruction{
		Accounts:  []AccountMeta{{Pubkey: acctPubkey, IsSigner: signed, IsWritable: true}},
		Data:      buf.Bytes(),
		ProgramId: SystemProgramAddr,
	}
}

func TestExecute_Tx_System_Program_Assign_Success(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)

	acctPubkey := newTestPubkey(t)
	acct := accounts.Account{Key: acctPubkey, Lamports: 1, Owner: SystemProgramAddr}
	newOwner := newTestPubkey(t)

	execCtx, _ := newTestExecCtx(t, []accounts.Account{systemProgramAcct, acct}, DefaultRent())

	_, err := execCtx.ProcessTransaction([]Instruction{newAssignInstruction(t, acctPubkey, newOwner, true)})
	require.NoError(t, err)

	post, err := execCtx.TransactionContext.AccountByKey(acctPubkey)
	require.NoError(t, err)
	assert.Equal(t, newOwner, post.Owner)
}

func TestExecute_Tx_System_Program_Assign_MissingSignature(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)

	acctPubkey := newTestPubkey(t)
	acct := accounts.Account{Key: acctPubkey, Lamports: 1, Owner: SystemProgramAddr}

	execCtx, _ := newTestExecCtx(t, []accounts.Account{systemProgramAcct, acct}, DefaultRent())

	_, err := execCtx.ProcessTransaction([]Instruction{newAssignInstruction(t, acctPubkey, newTestPubkey(t), false)})
	assert.Equal(t, InstrErrMissingRequiredSignature, err)

	// already owned by the target: no signature needed
	_, err = execCtx.ProcessTransaction([]Instruction{newAssignInstruction(t, acctPubkey, SystemProgramAddr, false)})
	assert.NoError(t, err)
}

func TestExecute_Tx_ComputeBudget(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)

	fromPubkey := newTestPubkey(t)
	fromAcct := accounts.Account{Key: fromPubkey, Lamports: 5000, Owner: SystemProgramAddr}
	toPubkey := newTestPubkey(t)
	toAcct := accounts.Account{Key: toPubkey, Owner: SystemProgramAddr}

	execCtx, _ := newTestExecCtx(t, []accounts.Account{systemProgramAcct, fromAcct, toAcct}, DefaultRent())
	assert.Equal(t, uint64(cu.DefaultComputeBudget), execCtx.ComputeMeter.Remaining())

	_, err := execCtx.ProcessTransaction([]Instruction{NewTransferInstruction(fromPubkey, toPubkey, 1000)})
	require.NoError(t, err)
	assert.Equal(t, uint64(CUSystemProgramDefaultComputeUnits), execCtx.ComputeMeter.Used())

	execCtx.ComputeMeter = cu.NewComputeMeter(CUSystemProgramDefaultComputeUnits - 1)
	_, err = execCtx.ProcessTransaction([]Instruction{NewTransferInstruction(fromPubkey, toPubkey, 1000)})
	assert.Equal(t, InstrErrComputationalBudgetExceeded, err)

	fromPost, err := execCtx.TransactionContext.AccountByKey(fromPubkey)
	require.NoError(t, err)
	assert.Equal(t, uint64(4000), fromPost.Lamports)
}

func TestExecute_Tx_System_Program_Allocate_TooLarge(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)

	acctPubkey := newTestPubkey(t)
	acct := accounts.Account{Key: acctPubkey, Owner: SystemProgramAddr}

	execCtx, _ := newTestExecCtx(t, []accounts.Account{systemProgramAcct, acct}, DefaultRent())

	buf := new(bytes.Buffer)
	allocate := SystemInstrAllocate{Space: SystemProgMaxPermittedDataLen + 1}
	require.NoError(t, allocate.MarshalWithEncoder(bin.NewBinEncoder(buf)))

	ix := Instruction{
		Accounts:  []AccountMeta{{Pubkey: acctPubkey, IsSigner: true, IsWritable: true}},
		Data:      buf.Bytes(),
		ProgramId: SystemProgramAddr,
	}
	_, err := execCtx.ProcessTransaction([]Instruction{ix})
	assert.Equal(t, SystemProgErrInvalidAccountDataLength, err)
}

func TestExecute_Tx_System_Program_InvalidInstructionData(t *testing.T) {
	systemProgramAcct := NewNativeProgramAccount(SystemProgramAddr)
	execCtx, _ := newTestExecCtx(t, []accounts.Account{systemProgramAcct}, DefaultRent())

	ix := Instruction{Data: []byte{0x02, 0x00}, ProgramId: SystemProgramAddr}
	_, err := execCtx.ProcessTransaction([]Instruction{ix})
	assert.Equal(t, InstrErrInvalidInstructionData, err)
}

func TestExecute_Tx_UnknownProgram(t *testing.T) {
	programId := newTestPubkey(t)
	programAcct := NewNativeProgramAccount(programId)
	execCtx, _ := newTestExecCtx(t, []accounts.Account{programAcct}, DefaultRent())

	_, err := execCtx.ProcessTransaction([]Instruction{{ProgramId: programId}})
	assert.Equal(t, InstrErrUnsupportedProgramId, err)
}

func TestSysvarRent_MinimumBalance(t *testing.T) {
	rent := DefaultRent()
	assert.Equal(t, uint64(890880), rent.MinimumBalance(0))
	assert.Equal(t, uint64((128+16)*3480*2), rent.MinimumBalance(16))
	assert.True(t, rent.IsExempt(rent.MinimumBalance(16), 16))
	assert.False(t, rent.IsExempt(rent.MinimumBalance(16)-1, 16))
}

func TestSysvarRent_ReadWrite(t *testing.T) {
	store := accounts.NewMemAccounts()

	_, err := ReadRentSysvar(store)
	assert.Equal(t, InstrErrUnsupportedSysvar, err)

	rent := SysvarRent{LamportsPerUint8Year: 1, ExemptionThreshold: 1, BurnPercent: 0}
	require.NoError(t, WriteRentSysvar(store, rent))

	readBack, err := ReadRentSysvar(store)
	require.NoError(t, err)
	assert.Equal(t, rent, readBack)
	assert.Equal(t, uint64(128+10), readBack.MinimumBalance(10))
}

func TestExecute_NativeInvokeSigned_PrivilegeEscalation(t *testing.T) {
	callerId := newTestPubkey(t)
	var invokeErr error
	RegisterNativeProgram(callerId, func(execCtx *ExecutionCtx) error {
		instrCtx, err := execCtx.TransactionContext.CurrentInstructionCtx()
		if err != nil {
			return err
		}
		from, err := instrCtx.KeyOfInstructionAccount(execCtx.TransactionContext, 0)
		if err != nil {
			return err
		}
		to, err := instrCtx.KeyOfInstructionAccount(execCtx.TransactionContext, 1)
		if err != nil {
			return err
		}
		// "to" is not derived from these seeds, so it gains no signature
		seeds := [][]byte{[]byte("seed")}
		_, bump, err := pda.FindProgramAddress(seeds, callerId)
		if err != nil {
			return err
		}
		invokeErr = execCtx.NativeInvokeSigned(NewCreateAccountInstruction(from, to, 1, 1, callerId), [][][]byte{pda.WithBump(seeds, bump)})
		return invokeErr
	})

	fromPubkey := newTestPubkey(t)
	toPubkey := newTestPubkey(t)
	txAccts := []accounts.Account{
		NewNativeProgramAccount(callerId),
		NewNativeProgramAccount(SystemProgramAddr),
		{Key: fromPubkey, Lamports: 10000, Owner: SystemProgramAddr},
		{Key: toPubkey, Owner: SystemProgramAddr},
	}
	execCtx, _ := newTestExecCtx(t, txAccts, DefaultRent())

	ix := Instruction{
		Accounts: []AccountMeta{
			{Pubkey: fromPubkey, IsSigner: true, IsWritable: true},
			{Pubkey: toPubkey, IsSigner: false, IsWritable: true},
			{Pubkey: SystemProgramAddr},
		},
		ProgramId: callerId,
	}
	_, err := execCtx.ProcessTransaction([]Instruction{ix})
	assert.Equal(t, InstrErrPrivilegeEscalation, err)
	assert.Equal(t, InstrErrPrivilegeEscalation, invokeErr)
	assert.Equal(t, InstrErrCodePrivilegeEscalation, ErrorCode(err))
}

func TestExecute_NativeInvokeSigned_InvalidSeeds(t *testing.T) {
	callerId := newTestPubkey(t)
	RegisterNativeProgram(callerId, func(execCtx *ExecutionCtx) error {
		longSeed := make([]byte, 33)
		return execCtx.NativeInvokeSigned(Instruction{ProgramId: SystemProgramAddr}, [][][]byte{{longSeed}})
	})

	execCtx, _ := newTestExecCtx(t, []accounts.Account{NewNativeProgramAccount(callerId)}, DefaultRent())
	_, err := execCtx.ProcessTransaction([]Instruction{{ProgramId: callerId}})
	assert.Equal(t, InstrErrMaxSeedLengthExceeded, err)
}

func TestExecute_Tx_Reentrancy(t *testing.T) {
	callerId := newTestPubkey(t)
	RegisterNativeProgram(callerId, func(execCtx *ExecutionCtx) error {
		return execCtx.NativeInvoke(Instruction{ProgramId: callerId, Accounts: []AccountMeta{{Pubkey: callerId}}}, nil)
	})

	execCtx, _ := newTestExecCtx(t, []accounts.Account{NewNativeProgramAccount(callerId)}, DefaultRent())
	_, err := execCtx.ProcessTransaction([]Instruction{{ProgramId: callerId, Accounts: []AccountMeta{{Pubkey: callerId}}}})
	assert.Error(t, err)
	// self-recursion is permitted until the stack is exhausted
	assert.Equal(t, InstrErrCallDepth, err)
}
