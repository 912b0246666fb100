package echo

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

const (
	AuthorizedBufferHeaderSize     = 9
	VendingMachineBufferHeaderSize = 9
)

var ErrHeaderTooShort = errors.New("buffer header too short")

// AuthorizedBufferHeader prefixes every authorized buffer. It is written once
// at creation and re-read on each AuthorizedEcho to re-derive the address.
type AuthorizedBufferHeader struct {
	BumpSeed   uint8
	BufferSeed uint64
}

// VendingMachineBufferHeader prefixes every vending machine buffer.
type VendingMachineBufferHeader struct {
	BumpSeed uint8
	Price    uint64
}

func marshalHeader(bump uint8, value uint64, size int) []byte {
	buf := new(bytes.Buffer)
	encoder := bin.NewBorshEncoder(buf)

	if err := encoder.WriteUint8(bump); err != nil {
		panic(err)
	}
	if err := encoder.WriteUint64(value, bin.LE); err != nil {
		panic(err)
	}

	if buf.Len() != size {
		panic(fmt.Sprintf("header encoded to %d bytes, want %d", buf.Len(), size))
	}
	return buf.Bytes()
}

func unmarshalHeader(data []byte, size int) (uint8, uint64, error) {
	if len(data) < size {
		return 0, 0, fmt.Errorf("%w: %d < %d", ErrHeaderTooShort, len(data), size)
	}

	decoder := bin.NewBorshDecoder(data[:size])
	bump, err := decoder.ReadUint8()
	if err != nil {
		return 0, 0, err
	}
	value, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return 0, 0, err
	}
	return bump, value, nil
}

func (h AuthorizedBufferHeader) Marshal() []byte {
	return marshalHeader(h.BumpSeed, h.BufferSeed, AuthorizedBufferHeaderSize)
}

// Unmarshal reads the header from the first AuthorizedBufferHeaderSize
// bytes of data.
func (h *AuthorizedBufferHeader) Unmarshal(data []byte) (err error) {
	h.BumpSeed, h.BufferSeed, err = unmarshalHeader(data, AuthorizedBufferHeaderSize)
	return
}

func (h VendingMachineBufferHeader) Marshal() []byte {
	return marshalHeader(h.BumpSeed, h.Price, VendingMachineBufferHeaderSize)
}

func (h *VendingMachineBufferHeader) Unmarshal(data []byte) (err error) {
	h.BumpSeed, h.Price, err = unmarshalHeader(data, VendingMachineBufferHeaderSize)
	return
}
