package echo

import (
	"go.firedancer.io/echo/pkg/sealevel"
)

// writeEcho fills dst with the leading bytes of payload. Bytes of dst past
// the end of payload are zeroed.
func writeEcho(dst []byte, payload []byte) error {
	if len(dst) == 0 {
		return sealevel.InstrErrAccountDataTooSmall
	}

	n := copy(dst, payload)
	clear(dst[n:])
	return nil
}

// writeWithHeader lays header over the start of dst and payload after it,
// zero filling whatever payload does not cover.
func writeWithHeader(dst []byte, header []byte, payload []byte) error {
	if len(dst) == 0 || len(dst) < len(header) {
		return sealevel.InstrErrAccountDataTooSmall
	}

	copy(dst, header)
	n := copy(dst[len(header):], payload)
	clear(dst[len(header)+n:])
	return nil
}
