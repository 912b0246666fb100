// Package base58 wraps mr-tron/base58 for 32-byte Solana addresses.
package base58

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// MustDecodeFromString decodes a base58 address constant. Panics on
// anything that is not exactly 32 bytes; only use it for literals.
func MustDecodeFromString(s string) [32]byte {
	out, err := DecodeFromString(s)
	if err != nil {
		panic(err)
	}
	return out
}

func DecodeFromString(s string) ([32]byte, error) {
	var out [32]byte
	b, err := base58.Decode(s)
	if err != nil {
		return out, fmt.Errorf("invalid base58 %q: %w", s, err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("invalid address %q: decoded to %d bytes", s, len(b))
	}
	copy(out[:], b)
	return out, nil
}

func Encode(b []byte) string {
	return base58.Encode(b)
}
