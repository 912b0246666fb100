package echo

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/base58"
	"go.firedancer.io/echo/pkg/sealevel"
)

const ProgramIDStr = "Echo111111111111111111111111111111111111111"

var ProgramID = solana.PublicKey(base58.MustDecodeFromString(ProgramIDStr))

func init() {
	Register(ProgramID)
}

// Register makes the echo program executable under programId in addition
// to ProgramID.
func Register(programId solana.PublicKey) {
	sealevel.RegisterNativeProgram(programId, ProgramExecute)
}
