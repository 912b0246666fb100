package safemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaturating(t *testing.T) {
	assert.Equal(t, uint64(0), SaturatingSubU64(1, 2))
	assert.Equal(t, uint64(3), SaturatingSubU64(5, 2))
	assert.Equal(t, uint64(math.MaxUint64), SaturatingAddU64(math.MaxUint64, 1))
	assert.Equal(t, uint64(math.MaxUint64), SaturatingMulU64(math.MaxUint64, 2))
	assert.Equal(t, uint64(12), SaturatingMulU64(3, 4))
}

func TestChecked(t *testing.T) {
	_, ok := CheckedAddU64(math.MaxUint64, 1)
	assert.False(t, ok)
	v, ok := CheckedAddU64(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), v)

	_, ok = CheckedSubU64(1, 2)
	assert.False(t, ok)
	v, ok = CheckedSubU64(5, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), v)
}
