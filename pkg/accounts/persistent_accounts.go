package accounts

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/lotusdblabs/lotusdb/v2"
	"go.firedancer.io/echo/pkg/base58"
)

// PersistentAccountsDb is a lotusdb-backed account store keyed by pubkey.
type PersistentAccountsDb struct {
	db *lotusdb.DB
}

func OpenPersistentAccountsDb(dir string) (*PersistentAccountsDb, error) {
	options := lotusdb.DefaultOptions
	options.DirPath = dir

	db, err := lotusdb.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening accounts db at %s: %w", dir, err)
	}

	return &PersistentAccountsDb{db: db}, nil
}

func (m *PersistentAccountsDb) Close() error {
	return m.db.Close()
}

// GetAccount returns nil, nil when the key has never been stored.
func (m *PersistentAccountsDb) GetAccount(pubkey solana.PublicKey) (*Account, error) {
	acctBytes, err := m.db.Get(pubkey[:])
	if err != nil || len(acctBytes) == 0 {
		return nil, nil
	}

	decoder := bin.NewBinDecoder(acctBytes)
	acct := new(Account)

	err = acct.UnmarshalWithDecoder(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize account %s: %w", base58.Encode(pubkey[:]), err)
	}

	return acct, nil
}

func (m *PersistentAccountsDb) SetAccount(pubkey solana.PublicKey, acct *Account) error {
	writer := new(bytes.Buffer)
	encoder := bin.NewBinEncoder(writer)

	err := acct.MarshalWithEncoder(encoder)
	if err != nil {
		return fmt.Errorf("failed to serialize account %s: %w", base58.Encode(pubkey[:]), err)
	}

	err = m.db.Put(pubkey[:], writer.Bytes())
	if err != nil {
		return fmt.Errorf("error setting account for %s: %w", base58.Encode(pubkey[:]), err)
	}

	return nil
}
