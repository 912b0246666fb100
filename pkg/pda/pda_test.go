package pda

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64Seed(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func TestFindProgramAddress_MatchesClient(t *testing.T) {
	programId := solana.MustPublicKeyFromBase58("Echo111111111111111111111111111111111111111")

	for i := 0; i < 16; i++ {
		authority := solana.NewWallet().PublicKey()
		seeds := [][]byte{[]byte("authority"), authority[:], u64Seed(uint64(i))}

		addr, bump, err := FindProgramAddress(seeds, programId)
		require.NoError(t, err)

		clientAddr, clientBump, err := solana.FindProgramAddress(seeds, programId)
		require.NoError(t, err)

		assert.Equal(t, clientAddr, addr)
		assert.Equal(t, clientBump, bump)
	}
}

func TestFindProgramAddress_Deterministic(t *testing.T) {
	programId := solana.SystemProgramID
	seeds := [][]byte{[]byte("vending_machine"), solana.TokenProgramID[:], u64Seed(100)}

	addr1, bump1, err := FindProgramAddress(seeds, programId)
	require.NoError(t, err)
	addr2, bump2, err := FindProgramAddress(seeds, programId)
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)
	assert.False(t, IsOnCurve(addr1[:]))
}

func TestFindProgramAddress_DomainSeparation(t *testing.T) {
	programId := solana.SystemProgramID
	key := solana.NewWallet().PublicKey()

	authorityAddr, _, err := FindProgramAddress([][]byte{[]byte("authority"), key[:], u64Seed(7)}, programId)
	require.NoError(t, err)
	vmAddr, _, err := FindProgramAddress([][]byte{[]byte("vending_machine"), key[:], u64Seed(7)}, programId)
	require.NoError(t, err)

	assert.NotEqual(t, authorityAddr, vmAddr)
}

func TestCreateProgramAddress_WithFoundBump(t *testing.T) {
	programId := solana.SystemProgramID
	seeds := [][]byte{[]byte("authority"), u64Seed(3)}

	addr, bump, err := FindProgramAddress(seeds, programId)
	require.NoError(t, err)

	recomputed, err := CreateProgramAddress(WithBump(seeds, bump), programId)
	require.NoError(t, err)
	assert.Equal(t, addr, recomputed)

	other, err := CreateProgramAddress(WithBump(seeds, bump), solana.TokenProgramID)
	if err == nil {
		assert.NotEqual(t, addr, other)
	}
}

func TestCreateProgramAddress_SeedLimits(t *testing.T) {
	programId := solana.SystemProgramID

	_, err := CreateProgramAddress([][]byte{make([]byte, MaxSeedLen+1)}, programId)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)

	tooMany := make([][]byte, MaxSeeds+1)
	for i := range tooMany {
		tooMany[i] = []byte{byte(i)}
	}
	_, err = CreateProgramAddress(tooMany, programId)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)

	// the bump takes the last slot
	_, _, err = FindProgramAddress(tooMany[:MaxSeeds], programId)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)
}

func TestWithBump_DoesNotAlias(t *testing.T) {
	seeds := make([][]byte, 1, 4)
	seeds[0] = []byte("a")
	first := WithBump(seeds, 1)
	second := WithBump(seeds, 2)
	assert.Equal(t, []byte{1}, first[1])
	assert.Equal(t, []byte{2}, second[1])
	assert.Len(t, seeds, 1)
}

func TestIsOnCurve(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()
	assert.True(t, IsOnCurve(wallet[:]))
}
