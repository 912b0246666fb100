package echo

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/sealevel"
)

func mustEncode(instr Instruction) []byte {
	data, err := EncodeInstruction(instr)
	if err != nil {
		panic(err)
	}
	return data
}

func NewEchoInstruction(programId solana.PublicKey, buffer solana.PublicKey, data []byte) sealevel.Instruction {
	return sealevel.Instruction{
		Accounts:  []sealevel.AccountMeta{{Pubkey: buffer, IsWritable: true}},
		Data:      mustEncode(&InstrEcho{Data: data}),
		ProgramId: programId,
	}
}

// NewInitializeAuthorizedEchoInstruction returns the instruction creating the
// authorized buffer of authority for bufferSeed, along with its address.
func NewInitializeAuthorizedEchoInstruction(programId solana.PublicKey, authority solana.PublicKey, bufferSeed uint64, bufferSize uint64) (sealevel.Instruction, solana.PublicKey, error) {
	buffer, _, err := FindAuthorizedBufferAddress(programId, authority, bufferSeed)
	if err != nil {
		return sealevel.Instruction{}, solana.PublicKey{}, err
	}

	ix := sealevel.Instruction{
		Accounts: []sealevel.AccountMeta{
			{Pubkey: buffer, IsWritable: true},
			{Pubkey: authority, IsSigner: true, IsWritable: true},
			{Pubkey: sealevel.SystemProgramAddr},
		},
		Data:      mustEncode(&InstrInitializeAuthorizedEcho{BufferSeed: bufferSeed, BufferSize: bufferSize}),
		ProgramId: programId,
	}
	return ix, buffer, nil
}

func NewAuthorizedEchoInstruction(programId solana.PublicKey, buffer solana.PublicKey, authority solana.PublicKey, data []byte) sealevel.Instruction {
	return sealevel.Instruction{
		Accounts: []sealevel.AccountMeta{
			{Pubkey: buffer, IsWritable: true},
			{Pubkey: authority, IsSigner: true},
		},
		Data:      mustEncode(&InstrAuthorizedEcho{Data: data}),
		ProgramId: programId,
	}
}

// NewInitializeVendingMachineInstruction returns the instruction creating the
// vending machine buffer for mint at price, along with its address.
func NewInitializeVendingMachineInstruction(programId solana.PublicKey, mint solana.PublicKey, payer solana.PublicKey, price uint64, bufferSize uint64) (sealevel.Instruction, solana.PublicKey, error) {
	buffer, _, err := FindVendingMachineBufferAddress(programId, mint, price)
	if err != nil {
		return sealevel.Instruction{}, solana.PublicKey{}, err
	}

	ix := sealevel.Instruction{
		Accounts: []sealevel.AccountMeta{
			{Pubkey: buffer, IsWritable: true},
			{Pubkey: mint},
			{Pubkey: payer, IsSigner: true, IsWritable: true},
			{Pubkey: sealevel.SystemProgramAddr},
		},
		Data:      mustEncode(&InstrInitializeVendingMachine{Price: price, BufferSize: bufferSize}),
		ProgramId: programId,
	}
	return ix, buffer, nil
}
