package echo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizedBufferHeader_RoundTrip(t *testing.T) {
	header := AuthorizedBufferHeader{BumpSeed: 254, BufferSeed: 0xdeadbeefcafe}
	encoded := header.Marshal()
	assert.Len(t, encoded, AuthorizedBufferHeaderSize)
	assert.Equal(t, []byte{254, 0xfe, 0xca, 0xef, 0xbe, 0xad, 0xde, 0, 0}, encoded)

	var decoded AuthorizedBufferHeader
	require.NoError(t, decoded.Unmarshal(encoded))
	assert.Equal(t, header, decoded)
}

func TestVendingMachineBufferHeader_RoundTrip(t *testing.T) {
	header := VendingMachineBufferHeader{BumpSeed: 1, Price: 5}
	encoded := header.Marshal()
	assert.Len(t, encoded, VendingMachineBufferHeaderSize)

	// trailing payload is ignored
	var decoded VendingMachineBufferHeader
	require.NoError(t, decoded.Unmarshal(append(encoded, 7, 7, 7)))
	assert.Equal(t, header, decoded)
}

func TestBufferHeader_UnmarshalShort(t *testing.T) {
	var header AuthorizedBufferHeader
	err := header.Unmarshal(make([]byte, AuthorizedBufferHeaderSize-1))
	assert.ErrorIs(t, err, ErrHeaderTooShort)

	var vmHeader VendingMachineBufferHeader
	err = vmHeader.Unmarshal(nil)
	assert.ErrorIs(t, err, ErrHeaderTooShort)
}
