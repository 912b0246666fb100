package echo

import (
	"github.com/gagliardetto/solana-go"
)

func verifyDerivation(candidate solana.PublicKey, expected solana.PublicKey, mismatchErr error) error {
	if candidate != expected {
		return mismatchErr
	}
	return nil
}
