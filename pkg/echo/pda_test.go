package echo

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAuthorizedBufferAddress_MatchesClient(t *testing.T) {
	authority := solana.NewWallet().PublicKey()

	for _, bufferSeed := range []uint64{0, 3, 1 << 40} {
		addr, bump, err := FindAuthorizedBufferAddress(ProgramID, authority, bufferSeed)
		require.NoError(t, err)

		clientAddr, clientBump, err := solana.FindProgramAddress(AuthorizedBufferSeeds(authority, bufferSeed), ProgramID)
		require.NoError(t, err)

		assert.Equal(t, clientAddr, addr)
		assert.Equal(t, clientBump, bump)

		recomputed, err := CreateAuthorizedBufferAddress(ProgramID, authority, AuthorizedBufferHeader{BumpSeed: bump, BufferSeed: bufferSeed})
		require.NoError(t, err)
		assert.Equal(t, addr, recomputed)
	}
}

func TestFindVendingMachineBufferAddress_MatchesClient(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	addr, bump, err := FindVendingMachineBufferAddress(ProgramID, mint, 1000)
	require.NoError(t, err)

	clientAddr, clientBump, err := solana.FindProgramAddress(VendingMachineBufferSeeds(mint, 1000), ProgramID)
	require.NoError(t, err)

	assert.Equal(t, clientAddr, addr)
	assert.Equal(t, clientBump, bump)
}

func TestBufferAddress_Deterministic(t *testing.T) {
	authority := solana.NewWallet().PublicKey()

	addr1, bump1, err := FindAuthorizedBufferAddress(ProgramID, authority, 7)
	require.NoError(t, err)
	addr2, bump2, err := FindAuthorizedBufferAddress(ProgramID, authority, 7)
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)
}

func TestBufferAddress_DomainSeparation(t *testing.T) {
	for i := 0; i < 8; i++ {
		key := solana.NewWallet().PublicKey()
		seed := uint64(i)

		authAddr, _, err := FindAuthorizedBufferAddress(ProgramID, key, seed)
		require.NoError(t, err)
		vmAddr, _, err := FindVendingMachineBufferAddress(ProgramID, key, seed)
		require.NoError(t, err)

		assert.NotEqual(t, authAddr, vmAddr)
	}
}

func TestSeeds_Layout(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	seeds := AuthorizedBufferSeeds(authority, 3)

	require.Len(t, seeds, 3)
	assert.Equal(t, []byte("authority"), seeds[0])
	assert.Equal(t, authority.Bytes(), seeds[1])
	assert.Equal(t, []byte{3, 0, 0, 0, 0, 0, 0, 0}, seeds[2])

	assert.Equal(t, []byte("vending_machine"), VendingMachineBufferSeeds(authority, 3)[0])
}
