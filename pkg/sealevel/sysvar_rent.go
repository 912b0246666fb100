package sealevel

import (
	"bytes"
	"fmt"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/echo/pkg/accounts"
	"go.firedancer.io/echo/pkg/base58"
	"go.firedancer.io/echo/pkg/safemath"
)

const SysvarRentAddrStr = "SysvarRent111111111111111111111111111111111"

var SysvarRentAddr = solana.PublicKey(base58.MustDecodeFromString(SysvarRentAddrStr))

const SysvarRentStructLen = 17

// AccountStorageOverhead is the per-account byte overhead charged on top of
// the data length.
const AccountStorageOverhead = 128

type SysvarRent struct {
	LamportsPerUint8Year uint64
	ExemptionThreshold   float64
	BurnPercent          byte
}

func DefaultRent() SysvarRent {
	return SysvarRent{LamportsPerUint8Year: 3480, ExemptionThreshold: 2.0, BurnPercent: 50}
}

func (sr *SysvarRent) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	lamportsPerUint8Year, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read LamportsPerUint8Year when decoding SysvarRent: %w", err)
	}
	sr.LamportsPerUint8Year = lamportsPerUint8Year

	exemptionThreshold, err := decoder.ReadFloat64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read ExemptionThreshold when decoding SysvarRent: %w", err)
	}
	sr.ExemptionThreshold = exemptionThreshold

	burnPercent, err := decoder.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read BurnPercent when decoding SysvarRent: %w", err)
	}
	sr.BurnPercent = burnPercent

	return
}

func (sr *SysvarRent) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := encoder.WriteUint64(sr.LamportsPerUint8Year, bin.LE)
	if err != nil {
		return err
	}

	err = encoder.WriteFloat64(sr.ExemptionThreshold, bin.LE)
	if err != nil {
		return err
	}

	return encoder.WriteByte(sr.BurnPercent)
}

// MinimumBalance is the lamport balance an account of dataLen bytes needs
// to be rent exempt.
func (sr *SysvarRent) MinimumBalance(dataLen uint64) uint64 {
	bytes := safemath.SaturatingAddU64(dataLen, AccountStorageOverhead)
	perYear := safemath.SaturatingMulU64(bytes, sr.LamportsPerUint8Year)
	balance := float64(perYear) * sr.ExemptionThreshold
	if balance >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(balance)
}

func (sr *SysvarRent) IsExempt(lamports uint64, dataLen uint64) bool {
	return lamports >= sr.MinimumBalance(dataLen)
}

func ReadRentSysvar(accts accounts.Accounts) (SysvarRent, error) {
	var rent SysvarRent

	rentAcct, err := accts.GetAccount(SysvarRentAddr)
	if err != nil {
		return rent, err
	}
	if rentAcct == nil {
		return rent, InstrErrUnsupportedSysvar
	}

	dec := bin.NewBinDecoder(rentAcct.Data)
	err = rent.UnmarshalWithDecoder(dec)
	if err != nil {
		return rent, InstrErrUnsupportedSysvar
	}

	return rent, nil
}

func WriteRentSysvar(accts accounts.Accounts, rent SysvarRent) error {
	writer := new(bytes.Buffer)
	encoder := bin.NewBinEncoder(writer)

	err := rent.MarshalWithEncoder(encoder)
	if err != nil {
		return err
	}

	rentAcct := accounts.Account{Key: SysvarRentAddr, Lamports: 1, Data: writer.Bytes(), Owner: SysvarOwnerAddr}
	return accts.SetAccount(SysvarRentAddr, &rentAcct)
}
