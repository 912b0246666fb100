package features

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/base58"
)

type FeatureGate struct {
	Name    string
	Address solana.PublicKey
}

// EnforceVendingMachineMintCheck turns the vending machine mint unpack check
// from a logged warning into an instruction failure.
var EnforceVendingMachineMintCheck = FeatureGate{Name: "EnforceVendingMachineMintCheck", Address: base58.MustDecodeFromString("MintCheck1111111111111111111111111111111111")}

var AllFeatureGates = []FeatureGate{EnforceVendingMachineMintCheck}
