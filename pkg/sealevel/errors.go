package sealevel

import (
	"errors"
)

// instruction errors
var (
	InstrErrInvalidArgument                   = errors.New("InstrErrInvalidArgument")
	InstrErrInvalidInstructionData            = errors.New("InstrErrInvalidInstructionData")
	InstrErrInvalidAccountData                = errors.New("InstrErrInvalidAccountData")
	InstrErrAccountDataTooSmall               = errors.New("InstrErrAccountDataTooSmall")
	InstrErrInsufficientFunds                 = errors.New("InstrErrInsufficientFunds")
	InstrErrMissingRequiredSignature          = errors.New("InstrErrMissingRequiredSignature")
	InstrErrModifiedProgramId                 = errors.New("InstrErrModifiedProgramId")
	InstrErrExternalAccountLamportSpend       = errors.New("InstrErrExternalAccountLamportSpend")
	InstrErrExternalAccountDataModified       = errors.New("InstrErrExternalAccountDataModified")
	InstrErrReadonlyLamportChange             = errors.New("InstrErrReadonlyLamportChange")
	InstrErrReadonlyDataModified              = errors.New("InstrErrReadonlyDataModified")
	InstrErrExecutableModified                = errors.New("InstrErrExecutableModified")
	InstrErrNotEnoughAccountKeys              = errors.New("InstrErrNotEnoughAccountKeys")
	InstrErrAccountNotExecutable              = errors.New("InstrErrAccountNotExecutable")
	InstrErrAccountBorrowFailed               = errors.New("InstrErrAccountBorrowFailed")
	InstrErrExecutableDataModified            = errors.New("InstrErrExecutableDataModified")
	InstrErrExecutableLamportChange           = errors.New("InstrErrExecutableLamportChange")
	InstrErrUnsupportedProgramId              = errors.New("InstrErrUnsupportedProgramId")
	InstrErrCallDepth                         = errors.New("InstrErrCallDepth")
	InstrErrMissingAccount                    = errors.New("InstrErrMissingAccount")
	InstrErrReentrancyNotAllowed              = errors.New("InstrErrReentrancyNotAllowed")
	InstrErrMaxSeedLengthExceeded             = errors.New("InstrErrMaxSeedLengthExceeded")
	InstrErrInvalidSeeds                      = errors.New("InstrErrInvalidSeeds")
	InstrErrInvalidRealloc                    = errors.New("InstrErrInvalidRealloc")
	InstrErrComputationalBudgetExceeded       = errors.New("InstrErrComputationalBudgetExceeded")
	InstrErrPrivilegeEscalation               = errors.New("InstrErrPrivilegeEscalation")
	InstrErrInvalidAccountOwner               = errors.New("InstrErrInvalidAccountOwner")
	InstrErrArithmeticOverflow                = errors.New("InstrErrArithmeticOverflow")
	InstrErrUnsupportedSysvar                 = errors.New("InstrErrUnsupportedSysvar")
	InstrErrIllegalOwner                      = errors.New("InstrErrIllegalOwner")
	InstrErrMaxInstructionTraceLengthExceeded = errors.New("InstrErrMaxInstructionTraceLengthExceeded")
)

// instruction errors - Solana numerical error codes
const (
	InstrErrCodeSuccess                           = 0
	InstrErrCodeInvalidArgument                   = 2
	InstrErrCodeInvalidInstructionData            = 3
	InstrErrCodeInvalidAccountData                = 4
	InstrErrCodeAccountDataTooSmall               = 5
	InstrErrCodeInsufficientFunds                 = 6
	InstrErrCodeMissingRequiredSignature          = 8
	InstrErrCodeModifiedProgramId                 = 12
	InstrErrCodeExternalAccountLamportSpend       = 13
	InstrErrCodeExternalAccountDataModified       = 14
	InstrErrCodeReadonlyLamportChange             = 15
	InstrErrCodeReadonlyDataModified              = 16
	InstrErrCodeExecutableModified                = 18
	InstrErrCodeNotEnoughAccountKeys              = 20
	InstrErrCodeAccountNotExecutable              = 22
	InstrErrCodeAccountBorrowFailed               = 23
	InstrErrCodeCustom                            = 26
	InstrErrCodeExecutableDataModified            = 28
	InstrErrCodeExecutableLamportChange           = 29
	InstrErrCodeUnsupportedProgramId              = 31
	InstrErrCodeCallDepth                         = 32
	InstrErrCodeMissingAccount                    = 33
	InstrErrCodeReentrancyNotAllowed              = 34
	InstrErrCodeMaxSeedLengthExceeded             = 35
	InstrErrCodeInvalidSeeds                      = 36
	InstrErrCodeInvalidRealloc                    = 37
	InstrErrCodeComputationalBudgetExceeded       = 38
	InstrErrCodePrivilegeEscalation               = 39
	InstrErrCodeInvalidAccountOwner               = 47
	InstrErrCodeArithmeticOverflow                = 48
	InstrErrCodeUnsupportedSysvar                 = 49
	InstrErrCodeIllegalOwner                      = 50
	InstrErrCodeMaxInstructionTraceLengthExceeded = 52
)

var instrErrCodes = map[error]int{
	InstrErrInvalidArgument:                   InstrErrCodeInvalidArgument,
	InstrErrInvalidInstructionData:            InstrErrCodeInvalidInstructionData,
	InstrErrInvalidAccountData:                InstrErrCodeInvalidAccountData,
	InstrErrAccountDataTooSmall:               InstrErrCodeAccountDataTooSmall,
	InstrErrInsufficientFunds:                 InstrErrCodeInsufficientFunds,
	InstrErrMissingRequiredSignature:          InstrErrCodeMissingRequiredSignature,
	InstrErrModifiedProgramId:                 InstrErrCodeModifiedProgramId,
	InstrErrExternalAccountLamportSpend:       InstrErrCodeExternalAccountLamportSpend,
	InstrErrExternalAccountDataModified:       InstrErrCodeExternalAccountDataModified,
	InstrErrReadonlyLamportChange:             InstrErrCodeReadonlyLamportChange,
	InstrErrReadonlyDataModified:              InstrErrCodeReadonlyDataModified,
	InstrErrExecutableModified:                InstrErrCodeExecutableModified,
	InstrErrNotEnoughAccountKeys:              InstrErrCodeNotEnoughAccountKeys,
	InstrErrAccountNotExecutable:              InstrErrCodeAccountNotExecutable,
	InstrErrAccountBorrowFailed:               InstrErrCodeAccountBorrowFailed,
	InstrErrExecutableDataModified:            InstrErrCodeExecutableDataModified,
	InstrErrExecutableLamportChange:           InstrErrCodeExecutableLamportChange,
	InstrErrUnsupportedProgramId:              InstrErrCodeUnsupportedProgramId,
	InstrErrCallDepth:                         InstrErrCodeCallDepth,
	InstrErrMissingAccount:                    InstrErrCodeMissingAccount,
	InstrErrReentrancyNotAllowed:              InstrErrCodeReentrancyNotAllowed,
	InstrErrMaxSeedLengthExceeded:             InstrErrCodeMaxSeedLengthExceeded,
	InstrErrInvalidSeeds:                      InstrErrCodeInvalidSeeds,
	InstrErrInvalidRealloc:                    InstrErrCodeInvalidRealloc,
	InstrErrComputationalBudgetExceeded:       InstrErrCodeComputationalBudgetExceeded,
	InstrErrPrivilegeEscalation:               InstrErrCodePrivilegeEscalation,
	InstrErrInvalidAccountOwner:               InstrErrCodeInvalidAccountOwner,
	InstrErrArithmeticOverflow:                InstrErrCodeArithmeticOverflow,
	InstrErrUnsupportedSysvar:                 InstrErrCodeUnsupportedSysvar,
	InstrErrIllegalOwner:                      InstrErrCodeIllegalOwner,
	InstrErrMaxInstructionTraceLengthExceeded: InstrErrCodeMaxInstructionTraceLengthExceeded,
}

// ErrorCode translates an execution error into the numeric instruction
// error surfaced to callers. Program-specific errors map to Custom.
func ErrorCode(err error) int {
	if err == nil {
		return InstrErrCodeSuccess
	}
	for instrErr, code := range instrErrCodes {
		if errors.Is(err, instrErr) {
			return code
		}
	}
	return InstrErrCodeCustom
}
