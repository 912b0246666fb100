package sealevel

import (
	"go.firedancer.io/echo/pkg/accounts"
)

type TransactionAccounts struct {
	Accounts []*accounts.Account
	Touched  []bool
	borrowed []bool
}

func NewTransactionAccounts(txAccounts []accounts.Account) *TransactionAccounts {
	txAccts := new(TransactionAccounts)
	for idx := range txAccounts {
		acct := txAccounts[idx]
		if acct.Data == nil {
			acct.Data = []byte{}
		}
		txAccts.Accounts = append(txAccts.Accounts, &acct)
	}
	txAccts.Touched = make([]bool, len(txAccts.Accounts))
	txAccts.borrowed = make([]bool, len(txAccts.Accounts))
	return txAccts
}

func (txAccounts *TransactionAccounts) Len() uint64 {
	return uint64(len(txAccounts.Accounts))
}

func (txAccounts *TransactionAccounts) GetAccount(idx uint64) (*accounts.Account, error) {
	if idx >= txAccounts.Len() {
		return nil, InstrErrNotEnoughAccountKeys
	}
	return txAccounts.Accounts[idx], nil
}

func (txAccounts *TransactionAccounts) Touch(idx uint64) error {
	if idx >= txAccounts.Len() {
		return InstrErrNotEnoughAccountKeys
	}
	txAccounts.Touched[idx] = true
	return nil
}

// Snapshot deep-copies every account so a failed transaction can be rolled back.
func (txAccounts *TransactionAccounts) Snapshot() []*accounts.Account {
	snapshot := make([]*accounts.Account, len(txAccounts.Accounts))
	for idx, acct := range txAccounts.Accounts {
		snapshot[idx] = acct.Clone()
	}
	return snapshot
}

// Restore replaces account state with a previous Snapshot. Account pointers
// stay stable so outstanding references observe the rolled back contents.
func (txAccounts *TransactionAccounts) Restore(snapshot []*accounts.Account) {
	for idx, acct := range snapshot {
		*txAccounts.Accounts[idx] = *acct.Clone()
		txAccounts.Touched[idx] = false
	}
}

func (txAccounts *TransactionAccounts) borrow(idx uint64) (*accounts.Account, error) {
	acct, err := txAccounts.GetAccount(idx)
	if err != nil {
		return nil, err
	}
	if txAccounts.borrowed[idx] {
		return nil, InstrErrAccountBorrowFailed
	}
	txAccounts.borrowed[idx] = true
	return acct, nil
}

func (txAccounts *TransactionAccounts) release(idx uint64) {
	if idx < txAccounts.Len() {
		txAccounts.borrowed[idx] = false
	}
}
