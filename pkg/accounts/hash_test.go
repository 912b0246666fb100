package accounts

import (
	"crypto/sha256"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
)

func TestAccount_HashCoversEveryField(t *testing.T) {
	base := Account{Key: solana.NewWallet().PublicKey(), Lamports: 10, Data: []byte{1, 2}, Owner: solana.SystemProgramID, RentEpoch: 3}
	baseHash := base.Hash()

	mutations := map[string]func(a *Account){
		"lamports":   func(a *Account) { a.Lamports++ },
		"rent epoch": func(a *Account) { a.RentEpoch++ },
		"data":       func(a *Account) { a.Data = []byte{1, 3} },
		"executable": func(a *Account) { a.Executable = true },
		"owner":      func(a *Account) { a.Owner = solana.TokenProgramID },
		"key":        func(a *Account) { a.Key = solana.NewWallet().PublicKey() },
	}

	for name, mutate := range mutations {
		acct := *base.Clone()
		mutate(&acct)
		assert.NotEqual(t, baseHash, acct.Hash(), name)
	}

	assert.Equal(t, baseHash, base.Clone().Hash())
}

func TestDeltaHash_SingleLevel(t *testing.T) {
	a := &Account{Key: solana.PublicKey{1}, Lamports: 1}
	b := &Account{Key: solana.PublicKey{2}, Lamports: 2}

	ha, hb := a.Hash(), b.Hash()
	expected := sha256.Sum256(append(ha[:], hb[:]...))

	assert.Equal(t, expected, DeltaHash([]*Account{a, b}))
	// ordered by key regardless of input order
	assert.Equal(t, expected, DeltaHash([]*Account{b, a}))
}

func TestDeltaHash_TwoLevels(t *testing.T) {
	accts := make([]*Account, merkleFanout+1)
	for idx := range accts {
		accts[idx] = &Account{Key: solana.PublicKey{byte(idx)}, Lamports: uint64(idx)}
	}

	var first []byte
	for _, acct := range accts[:merkleFanout] {
		h := acct.Hash()
		first = append(first, h[:]...)
	}
	left := sha256.Sum256(first)
	lastHash := accts[merkleFanout].Hash()
	right := sha256.Sum256(lastHash[:])
	expected := sha256.Sum256(append(left[:], right[:]...))

	assert.Equal(t, expected, DeltaHash(accts))
}

func TestDeltaHash_Empty(t *testing.T) {
	assert.Equal(t, [32]byte{}, DeltaHash(nil))
}
