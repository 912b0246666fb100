package echo

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/sealevel"
	"k8s.io/klog/v2"
)

// AccountCreator materializes a program-owned account at a program derived
// address. signerSeeds, bump included, prove the program may sign for
// target.
type AccountCreator interface {
	CreateAt(payer solana.PublicKey, target solana.PublicKey, signerSeeds [][]byte, space uint64) error
}

type hostAccountCreator struct {
	execCtx   *sealevel.ExecutionCtx
	programId solana.PublicKey
}

// NewHostAccountCreator returns an AccountCreator that funds the new account
// at the rent exempt minimum and creates it with a system program
// invocation signed for by programId.
func NewHostAccountCreator(execCtx *sealevel.ExecutionCtx, programId solana.PublicKey) AccountCreator {
	return &hostAccountCreator{execCtx: execCtx, programId: programId}
}

func (c *hostAccountCreator) CreateAt(payer solana.PublicKey, target solana.PublicKey, signerSeeds [][]byte, space uint64) error {
	if c.execCtx.Accounts == nil {
		return sealevel.InstrErrUnsupportedSysvar
	}

	rent, err := sealevel.ReadRentSysvar(c.execCtx.Accounts)
	if err != nil {
		return err
	}

	lamports := rent.MinimumBalance(space)
	klog.V(2).Infof("creating %s (%d bytes, %d lamports) funded by %s", target, space, lamports, payer)

	ix := sealevel.NewCreateAccountInstruction(payer, target, lamports, space, c.programId)
	return c.execCtx.NativeInvokeSigned(ix, [][][]byte{signerSeeds})
}
