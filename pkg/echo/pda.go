package echo

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/pda"
)

const (
	AuthoritySeedPrefix      = "authority"
	VendingMachineSeedPrefix = "vending_machine"
)

func u64Seed(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

func AuthorizedBufferSeeds(authority solana.PublicKey, bufferSeed uint64) [][]byte {
	return [][]byte{[]byte(AuthoritySeedPrefix), authority.Bytes(), u64Seed(bufferSeed)}
}

func VendingMachineBufferSeeds(mint solana.PublicKey, price uint64) [][]byte {
	return [][]byte{[]byte(VendingMachineSeedPrefix), mint.Bytes(), u64Seed(price)}
}

func FindAuthorizedBufferAddress(programId solana.PublicKey, authority solana.PublicKey, bufferSeed uint64) (solana.PublicKey, uint8, error) {
	return pda.FindProgramAddress(AuthorizedBufferSeeds(authority, bufferSeed), programId)
}

func FindVendingMachineBufferAddress(programId solana.PublicKey, mint solana.PublicKey, price uint64) (solana.PublicKey, uint8, error) {
	return pda.FindProgramAddress(VendingMachineBufferSeeds(mint, price), programId)
}

// CreateAuthorizedBufferAddress recomputes the address recorded by header.
func CreateAuthorizedBufferAddress(programId solana.PublicKey, authority solana.PublicKey, header AuthorizedBufferHeader) (solana.PublicKey, error) {
	seeds := pda.WithBump(AuthorizedBufferSeeds(authority, header.BufferSeed), header.BumpSeed)
	return pda.CreateProgramAddress(seeds, programId)
}
