package echo

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

const (
	EchoInstrTypeEcho = iota
	EchoInstrTypeInitializeAuthorizedEcho
	EchoInstrTypeAuthorizedEcho
	EchoInstrTypeInitializeVendingMachine
)

var (
	ErrUnknownInstruction = errors.New("unknown echo instruction")
	ErrTrailingBytes      = errors.New("trailing bytes after instruction")
	ErrVectorTooLong      = errors.New("vector length exceeds remaining input")
)

// Instruction is one of InstrEcho, InstrInitializeAuthorizedEcho,
// InstrAuthorizedEcho or InstrInitializeVendingMachine.
type Instruction interface {
	InstrType() uint8
	Name() string
	marshalFields(encoder *bin.Encoder) error
}

type InstrEcho struct {
	Data []byte
}

type InstrInitializeAuthorizedEcho struct {
	BufferSeed uint64
	BufferSize uint64
}

type InstrAuthorizedEcho struct {
	Data []byte
}

type InstrInitializeVendingMachine struct {
	Price      uint64
	BufferSize uint64
}

func (instr *InstrEcho) InstrType() uint8 { return EchoInstrTypeEcho }
func (instr *InstrInitializeAuthorizedEcho) InstrType() uint8 {
	return EchoInstrTypeInitializeAuthorizedEcho
}
func (instr *InstrAuthorizedEcho) InstrType() uint8 { return EchoInstrTypeAuthorizedEcho }
func (instr *InstrInitializeVendingMachine) InstrType() uint8 {
	return EchoInstrTypeInitializeVendingMachine
}

func (instr *InstrEcho) Name() string                     { return "Echo" }
func (instr *InstrInitializeAuthorizedEcho) Name() string { return "InitializeAuthorizedEcho" }
func (instr *InstrAuthorizedEcho) Name() string           { return "AuthorizedEcho" }
func (instr *InstrInitializeVendingMachine) Name() string { return "InitializeVendingMachine" }

func readVec(decoder *bin.Decoder) ([]byte, error) {
	length, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	if uint64(length) > uint64(decoder.Remaining()) {
		return nil, ErrVectorTooLong
	}
	if length == 0 {
		return []byte{}, nil
	}
	data, err := decoder.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	// ReadBytes aliases the input
	return bytes.Clone(data), nil
}

func writeVec(encoder *bin.Encoder, data []byte) error {
	err := encoder.WriteUint32(uint32(len(data)), bin.LE)
	if err != nil {
		return err
	}
	return encoder.WriteBytes(data, false)
}

func (instr *InstrEcho) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	instr.Data, err = readVec(decoder)
	return
}

func (instr *InstrEcho) marshalFields(encoder *bin.Encoder) error {
	return writeVec(encoder, instr.Data)
}

func (instr *InstrAuthorizedEcho) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	instr.Data, err = readVec(decoder)
	return
}

func (instr *InstrAuthorizedEcho) marshalFields(encoder *bin.Encoder) error {
	return writeVec(encoder, instr.Data)
}

func (instr *InstrInitializeAuthorizedEcho) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	instr.BufferSeed, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return
	}
	instr.BufferSize, err = decoder.ReadUint64(bin.LE)
	return
}

func (instr *InstrInitializeAuthorizedEcho) marshalFields(encoder *bin.Encoder) error {
	err := encoder.WriteUint64(instr.BufferSeed, bin.LE)
	if err != nil {
		return err
	}
	return encoder.WriteUint64(instr.BufferSize, bin.LE)
}

func (instr *InstrInitializeVendingMachine) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	instr.Price, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return
	}
	instr.BufferSize, err = decoder.ReadUint64(bin.LE)
	return
}

func (instr *InstrInitializeVendingMachine) marshalFields(encoder *bin.Encoder) error {
	err := encoder.WriteUint64(instr.Price, bin.LE)
	if err != nil {
		return err
	}
	return encoder.WriteUint64(instr.BufferSize, bin.LE)
}

// DecodeInstruction parses the borsh encoding of an echo instruction. The
// whole input must be consumed.
func DecodeInstruction(data []byte) (Instruction, error) {
	decoder := bin.NewBorshDecoder(data)

	instrType, err := decoder.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading instruction tag: %w", err)
	}

	var instr interface {
		Instruction
		UnmarshalWithDecoder(*bin.Decoder) error
	}

	switch instrType {
	case EchoInstrTypeEcho:
		instr = new(InstrEcho)
	case EchoInstrTypeInitializeAuthorizedEcho:
		instr = new(InstrInitializeAuthorizedEcho)
	case EchoInstrTypeAuthorizedEcho:
		instr = new(InstrAuthorizedEcho)
	case EchoInstrTypeInitializeVendingMachine:
		instr = new(InstrInitializeVendingMachine)
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownInstruction, instrType)
	}

	err = instr.UnmarshalWithDecoder(decoder)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", instr.Name(), err)
	}

	if decoder.Remaining() != 0 {
		return nil, fmt.Errorf("decoding %s: %w (%d)", instr.Name(), ErrTrailingBytes, decoder.Remaining())
	}

	return instr, nil
}

func EncodeInstruction(instr Instruction) ([]byte, error) {
	buf := new(bytes.Buffer)
	encoder := bin.NewBorshEncoder(buf)

	err := encoder.WriteUint8(instr.InstrType())
	if err != nil {
		return nil, err
	}

	err = instr.marshalFields(encoder)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
