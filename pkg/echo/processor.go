package echo

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.firedancer.io/echo/pkg/features"
	"go.firedancer.io/echo/pkg/pda"
	"go.firedancer.io/echo/pkg/sealevel"
	"k8s.io/klog/v2"
)

const CUEchoDefaultComputeUnits = 500

// ProgramExecute is the native entrypoint of the echo program.
func ProgramExecute(execCtx *sealevel.ExecutionCtx) error {
	programId, err := currentProgramId(execCtx)
	if err != nil {
		return err
	}
	return processInstruction(execCtx, NewHostAccountCreator(execCtx, programId))
}

func currentProgramId(execCtx *sealevel.ExecutionCtx) (solana.PublicKey, error) {
	instrCtx, err := execCtx.TransactionContext.CurrentInstructionCtx()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return instrCtx.LastProgramKey(execCtx.TransactionContext)
}

func processInstruction(execCtx *sealevel.ExecutionCtx, creator AccountCreator) error {
	err := execCtx.ComputeMeter.Consume(CUEchoDefaultComputeUnits)
	if err != nil {
		return sealevel.InstrErrComputationalBudgetExceeded
	}

	instrCtx, err := execCtx.TransactionContext.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	instr, err := DecodeInstruction(instrCtx.Data)
	if err != nil {
		klog.V(2).Infof("echo: %s", err)
		recordInstruction("invalid", err)
		return sealevel.InstrErrInvalidInstructionData
	}

	switch instr := instr.(type) {
	case *InstrEcho:
		err = handleEcho(execCtx, instr)
	case *InstrInitializeAuthorizedEcho:
		err = handleInitializeAuthorizedEcho(execCtx, creator, instr)
	case *InstrAuthorizedEcho:
		err = handleAuthorizedEcho(execCtx, instr)
	case *InstrInitializeVendingMachine:
		err = handleInitializeVendingMachine(execCtx, creator, instr)
	default:
		err = sealevel.InstrErrInvalidInstructionData
	}

	recordInstruction(instr.Name(), err)
	return err
}

func handleEcho(execCtx *sealevel.ExecutionCtx, instr *InstrEcho) error {
	execCtx.ProgramLog("Instruction: Echo")

	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	err = instrCtx.CheckNumOfInstructionAccounts(1)
	if err != nil {
		return err
	}

	buffer, err := instrCtx.BorrowInstructionAccount(txCtx, 0)
	if err != nil {
		return err
	}
	defer buffer.Drop()

	if len(buffer.Data()) == 0 {
		execCtx.ProgramLog("echo buffer is empty")
		return sealevel.InstrErrAccountDataTooSmall
	}

	dst, err := buffer.DataMutable()
	if err != nil {
		return err
	}

	return writeEcho(dst, instr.Data)
}

func handleInitializeAuthorizedEcho(execCtx *sealevel.ExecutionCtx, creator AccountCreator, instr *InstrInitializeAuthorizedEcho) error {
	execCtx.ProgramLog("Instruction: InitializeAuthorizedEcho")

	if instr.BufferSize <= AuthorizedBufferHeaderSize {
		execCtx.ProgramLog("buffer size %d must exceed header size %d", instr.BufferSize, AuthorizedBufferHeaderSize)
		return sealevel.InstrErrInvalidArgument
	}

	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	err = instrCtx.CheckNumOfInstructionAccounts(3)
	if err != nil {
		return err
	}

	bufferKey, err := instrCtx.KeyOfInstructionAccount(txCtx, 0)
	if err != nil {
		return err
	}
	authority, err := instrCtx.KeyOfInstructionAccount(txCtx, 1)
	if err != nil {
		return err
	}
	programId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		return err
	}

	seeds := AuthorizedBufferSeeds(authority, instr.BufferSeed)
	expected, bump, err := pda.FindProgramAddress(seeds, programId)
	if err != nil {
		return sealevel.InstrErrInvalidSeeds
	}

	err = verifyDerivation(bufferKey, expected, sealevel.InstrErrInvalidAccountData)
	if err != nil {
		execCtx.ProgramLog("authorized buffer %s does not match derived address %s", bufferKey, expected)
		return err
	}

	err = creator.CreateAt(authority, bufferKey, pda.WithBump(seeds, bump), instr.BufferSize)
	if err != nil {
		return err
	}

	buffer, err := instrCtx.BorrowInstructionAccount(txCtx, 0)
	if err != nil {
		return err
	}
	defer buffer.Drop()

	dst, err := buffer.DataMutable()
	if err != nil {
		return err
	}

	header := AuthorizedBufferHeader{BumpSeed: bump, BufferSeed: instr.BufferSeed}
	err = writeWithHeader(dst, header.Marshal(), nil)
	if err != nil {
		return err
	}

	execCtx.ProgramLog("Authorized buffer len: %d", instr.BufferSize)
	execCtx.ProgramLog("Bump seed: %d", bump)
	execCtx.ProgramLog("Buffer seed: %d", instr.BufferSeed)
	return nil
}

func handleAuthorizedEcho(execCtx *sealevel.ExecutionCtx, instr *InstrAuthorizedEcho) error {
	execCtx.ProgramLog("Instruction: AuthorizedEcho")

	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	err = instrCtx.CheckNumOfInstructionAccounts(2)
	if err != nil {
		return err
	}

	authority, err := instrCtx.KeyOfInstructionAccount(txCtx, 1)
	if err != nil {
		return err
	}
	isSigner, err := instrCtx.IsInstructionAccountSigner(1)
	if err != nil {
		return err
	}
	if !isSigner {
		execCtx.ProgramLog("authority %s must sign", authority)
		return sealevel.InstrErrMissingRequiredSignature
	}

	programId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		return err
	}

	buffer, err := instrCtx.BorrowInstructionAccount(txCtx, 0)
	if err != nil {
		return err
	}
	defer buffer.Drop()

	var header AuthorizedBufferHeader
	err = header.Unmarshal(buffer.Data())
	if err != nil {
		execCtx.ProgramLog("authorized buffer too small for header")
		return sealevel.InstrErrAccountDataTooSmall
	}

	derived, err := CreateAuthorizedBufferAddress(programId, authority, header)
	if err != nil {
		execCtx.ProgramLog("authorized buffer header does not derive a valid address")
		return sealevel.InstrErrIllegalOwner
	}

	err = verifyDerivation(buffer.Key(), derived, sealevel.InstrErrIllegalOwner)
	if err != nil {
		execCtx.ProgramLog("authorized buffer %s does not match header derivation %s", buffer.Key(), derived)
		return err
	}

	dst, err := buffer.DataMutable()
	if err != nil {
		return err
	}

	return writeWithHeader(dst, header.Marshal(), instr.Data)
}

// checkMint reports whether data unpacks as an SPL token mint. Option tags
// and the initialized flag must each be 0 or 1.
func checkMint(data []byte) error {
	if len(data) != token.MINT_SIZE {
		return sealevel.InstrErrInvalidAccountData
	}

	var mint token.Mint
	err := mint.UnmarshalWithDecoder(bin.NewBinDecoder(data))
	if err != nil {
		return sealevel.InstrErrInvalidAccountData
	}

	decoder := bin.NewBinDecoder(data)
	mintAuthorityTag, err := decoder.ReadUint32(bin.LE)
	if err != nil || mintAuthorityTag > 1 {
		return sealevel.InstrErrInvalidAccountData
	}
	// mint authority, supply, decimals
	err = decoder.Discard(32 + 8 + 1)
	if err != nil {
		return sealevel.InstrErrInvalidAccountData
	}
	isInitialized, err := decoder.ReadUint8()
	if err != nil || isInitialized > 1 {
		return sealevel.InstrErrInvalidAccountData
	}
	freezeAuthorityTag, err := decoder.ReadUint32(bin.LE)
	if err != nil || freezeAuthorityTag > 1 {
		return sealevel.InstrErrInvalidAccountData
	}
	return nil
}

func handleInitializeVendingMachine(execCtx *sealevel.ExecutionCtx, creator AccountCreator, instr *InstrInitializeVendingMachine) error {
	execCtx.ProgramLog("Instruction: InitializeVendingMachine")
	execCtx.ProgramLog("price: %d, buffer_size: %d", instr.Price, instr.BufferSize)

	if instr.BufferSize <= VendingMachineBufferHeaderSize {
		execCtx.ProgramLog("buffer size %d must exceed header size %d", instr.BufferSize, VendingMachineBufferHeaderSize)
		return sealevel.InstrErrInvalidArgument
	}

	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	err = instrCtx.CheckNumOfInstructionAccounts(4)
	if err != nil {
		return err
	}

	bufferKey, err := instrCtx.KeyOfInstructionAccount(txCtx, 0)
	if err != nil {
		return err
	}
	payer, err := instrCtx.KeyOfInstructionAccount(txCtx, 2)
	if err != nil {
		return err
	}
	programId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		return err
	}

	mintAcct, err := instrCtx.BorrowInstructionAccount(txCtx, 1)
	if err != nil {
		return err
	}
	mint := mintAcct.Key()
	mintErr := checkMint(mintAcct.Data())
	mintAcct.Drop()

	if mintErr != nil {
		execCtx.ProgramLog("invalid mint account %s", mint)
		if execCtx.GlobalCtx.Features.IsActive(features.EnforceVendingMachineMintCheck) {
			return mintErr
		}
	}

	seeds := VendingMachineBufferSeeds(mint, instr.Price)
	expected, bump, err := pda.FindProgramAddress(seeds, programId)
	if err != nil {
		return sealevel.InstrErrInvalidSeeds
	}

	err = verifyDerivation(bufferKey, expected, sealevel.InstrErrInvalidAccountData)
	if err != nil {
		execCtx.ProgramLog("vending machine buffer %s does not match derived address %s", bufferKey, expected)
		return err
	}

	err = creator.CreateAt(payer, bufferKey, pda.WithBump(seeds, bump), instr.BufferSize)
	if err != nil {
		return err
	}

	buffer, err := instrCtx.BorrowInstructionAccount(txCtx, 0)
	if err != nil {
		return err
	}
	defer buffer.Drop()

	dst, err := buffer.DataMutable()
	if err != nil {
		return err
	}

	header := VendingMachineBufferHeader{BumpSeed: bump, Price: instr.Price}
	err = writeWithHeader(dst, header.Marshal(), nil)
	if err != nil {
		return err
	}

	execCtx.ProgramLog("Vending machine buffer len: %d", instr.BufferSize)
	execCtx.ProgramLog("Bump seed: %d", bump)
	execCtx.ProgramLog("Buffer price: %d", instr.Price)
	return nil
}
