package sealevel

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/echo/pkg/accounts"
	"go.firedancer.io/echo/pkg/global"
)

func newTestPubkey(t *testing.T) solana.PublicKey {
	privKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return privKey.PublicKey()
}

func newTestExecCtx(t *testing.T, txAccts []accounts.Account, rent SysvarRent) (*ExecutionCtx, *LogRecorder) {
	store := accounts.NewMemAccounts()
	require.NoError(t, WriteRentSysvar(store, rent))

	var log LogRecorder
	execCtx := NewExecutionCtx(txAccts, store, *global.NewGlobalCtxDefault(), &log)
	return execCtx, &log
}
