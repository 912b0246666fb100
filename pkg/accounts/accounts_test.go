package accounts

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_MarshalUnmarshal(t *testing.T) {
	acct := Account{Key: solana.NewWallet().PublicKey(), Lamports: 1234, Data: []byte{1, 2, 3}, Owner: solana.SystemProgramID, Executable: true, RentEpoch: 7}

	writer := new(bytes.Buffer)
	require.NoError(t, acct.MarshalWithEncoder(bin.NewBinEncoder(writer)))

	var decoded Account
	require.NoError(t, decoded.UnmarshalWithDecoder(bin.NewBinDecoder(writer.Bytes())))
	assert.Equal(t, acct, decoded)
}

func TestAccount_UnmarshalTruncatedData(t *testing.T) {
	acct := Account{Data: make([]byte, 16)}
	writer := new(bytes.Buffer)
	require.NoError(t, acct.MarshalWithEncoder(bin.NewBinEncoder(writer)))

	var decoded Account
	err := decoded.UnmarshalWithDecoder(bin.NewBinDecoder(writer.Bytes()[:50]))
	assert.Error(t, err)
}

func TestAccount_CloneIsDeep(t *testing.T) {
	acct := &Account{Lamports: 1, Data: []byte{1, 2}}
	clone := acct.Clone()
	clone.Data[0] = 9
	clone.Lamports = 5
	assert.Equal(t, byte(1), acct.Data[0])
	assert.Equal(t, uint64(1), acct.Lamports)
}

func TestMemAccounts_GetSet(t *testing.T) {
	accts := NewMemAccounts()
	key := solana.NewWallet().PublicKey()

	got, err := accts.GetAccount(key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, accts.SetAccount(key, &Account{Key: key, Lamports: 10}))
	got, err = accts.GetAccount(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got.Lamports)
}
