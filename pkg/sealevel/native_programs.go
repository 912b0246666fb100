package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/accounts"
	"go.firedancer.io/echo/pkg/base58"
)

const NativeLoaderAddrStr = "NativeLoader1111111111111111111111111111111"

var NativeLoaderAddr = solana.PublicKey(base58.MustDecodeFromString(NativeLoaderAddrStr))

const SystemProgramAddrStr = "11111111111111111111111111111111"

var SystemProgramAddr = solana.PublicKey(base58.MustDecodeFromString(SystemProgramAddrStr))

const SysvarOwnerAddrStr = "Sysvar1111111111111111111111111111111111111"

var SysvarOwnerAddr = solana.PublicKey(base58.MustDecodeFromString(SysvarOwnerAddrStr))

type NativeProgramFn func(execCtx *ExecutionCtx) error

var nativePrograms = make(map[solana.PublicKey]NativeProgramFn)

func init() {
	RegisterNativeProgram(SystemProgramAddr, SystemProgramExecute)
}

// RegisterNativeProgram makes fn executable under programId. Not
// thread-safe; call it from init or before any transaction runs.
func RegisterNativeProgram(programId solana.PublicKey, fn NativeProgramFn) {
	nativePrograms[programId] = fn
}

func resolveNativeProgramById(programId solana.PublicKey) (NativeProgramFn, error) {
	fn, ok := nativePrograms[programId]
	if !ok {
		return nil, InstrErrUnsupportedProgramId
	}
	return fn, nil
}

// NewNativeProgramAccount returns the executable account record a
// transaction needs to reference a registered native program.
func NewNativeProgramAccount(programId solana.PublicKey) accounts.Account {
	return accounts.Account{Key: programId, Lamports: 1, Data: []byte{}, Owner: NativeLoaderAddr, Executable: true}
}
