package accounts

import (
	"bytes"
	"encoding/binary"
	"slices"

	"github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
)

const merkleFanout = 16

// Hash is the blake3 account hash over lamports, rent epoch, data,
// executable flag, owner and key.
func (a *Account) Hash() [32]byte {
	hasher := blake3.New()

	var lamportBytes [8]byte
	binary.LittleEndian.PutUint64(lamportBytes[:], a.Lamports)
	_, _ = hasher.Write(lamportBytes[:])

	var rentEpochBytes [8]byte
	binary.LittleEndian.PutUint64(rentEpochBytes[:], a.RentEpoch)
	_, _ = hasher.Write(rentEpochBytes[:])

	_, _ = hasher.Write(a.Data)

	if a.Executable {
		_, _ = hasher.Write([]byte{1})
	} else {
		_, _ = hasher.Write([]byte{0})
	}

	_, _ = hasher.Write(a.Owner[:])
	_, _ = hasher.Write(a.Key[:])

	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

func computeMerkleRoot(hashes [][32]byte) [32]byte {
	if len(hashes) == 0 {
		return [32]byte{}
	}

	results := make([][32]byte, 0, (len(hashes)+merkleFanout-1)/merkleFanout)
	for start := 0; start < len(hashes); start += merkleFanout {
		end := min(start+merkleFanout, len(hashes))

		hasher := sha256.New()
		for _, h := range hashes[start:end] {
			hasher.Write(h[:])
		}

		var sum [32]byte
		copy(sum[:], hasher.Sum(nil))
		results = append(results, sum)
	}

	if len(results) == 1 {
		return results[0]
	}
	return computeMerkleRoot(results)
}

// DeltaHash is the fanout-16 sha256 merkle root over the hashes of accts,
// ordered by key. An empty set hashes to zero.
func DeltaHash(accts []*Account) [32]byte {
	sorted := slices.Clone(accts)
	slices.SortStableFunc(sorted, func(a, b *Account) int {
		return bytes.Compare(a.Key[:], b.Key[:])
	})

	hashes := make([][32]byte, len(sorted))
	for idx, acct := range sorted {
		hashes[idx] = acct.Hash()
	}

	return computeMerkleRoot(hashes)
}
