// Package pda derives program addresses: sha256 over the seeds, the owning
// program id and a fixed marker, accepted only when the digest is not a
// valid ed25519 point (so no private key can exist for it).
package pda

import (
	"errors"
	"math"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
	"github.com/minio/sha256-simd"
)

const MaxSeeds = 16
const MaxSeedLen = 32
const Marker = "ProgramDerivedAddress"

var (
	ErrMaxSeedLengthExceeded = errors.New("ErrMaxSeedLengthExceeded")
	ErrInvalidSeeds          = errors.New("ErrInvalidSeeds")
	ErrNoViableBumpSeed      = errors.New("ErrNoViableBumpSeed")
)

func checkSeeds(seeds [][]byte, max int) error {
	if len(seeds) > max {
		return ErrMaxSeedLengthExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return ErrMaxSeedLengthExceeded
		}
	}
	return nil
}

func hashSeeds(seeds [][]byte, programId solana.PublicKey) [32]byte {
	hasher := sha256.New()
	for _, seed := range seeds {
		hasher.Write(seed)
	}
	hasher.Write(programId[:])
	hasher.Write([]byte(Marker))

	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// CreateProgramAddress computes the address for a seed list that already
// carries its bump seed.
func CreateProgramAddress(seeds [][]byte, programId solana.PublicKey) (solana.PublicKey, error) {
	if err := checkSeeds(seeds, MaxSeeds); err != nil {
		return solana.PublicKey{}, err
	}

	hash := hashSeeds(seeds, programId)
	if IsOnCurve(hash[:]) {
		return solana.PublicKey{}, ErrInvalidSeeds
	}
	return solana.PublicKeyFromBytes(hash[:]), nil
}

// FindProgramAddress searches bump seeds from 255 downwards and returns the
// first off-curve address together with its bump.
func FindProgramAddress(seeds [][]byte, programId solana.PublicKey) (solana.PublicKey, uint8, error) {
	if err := checkSeeds(seeds, MaxSeeds-1); err != nil {
		return solana.PublicKey{}, 0, err
	}

	for bumpSeed := uint8(math.MaxUint8); bumpSeed > 0; bumpSeed-- {
		addr, err := CreateProgramAddress(WithBump(seeds, bumpSeed), programId)
		if err == nil {
			return addr, bumpSeed, nil
		}
		if err != ErrInvalidSeeds {
			return solana.PublicKey{}, 0, err
		}
	}

	return solana.PublicKey{}, 0, ErrNoViableBumpSeed
}

// WithBump returns a copy of seeds with the bump appended as a single byte seed.
func WithBump(seeds [][]byte, bumpSeed uint8) [][]byte {
	out := make([][]byte, 0, len(seeds)+1)
	out = append(out, seeds...)
	return append(out, []byte{bumpSeed})
}

// IsOnCurve checks if 'b' is on the ed25519 curve
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
