// Package cu meters compute units spent by a transaction.
package cu

import (
	"errors"

	"go.firedancer.io/echo/pkg/safemath"
)

// DefaultComputeBudget is the per-transaction budget used by the host.
const DefaultComputeBudget = 200_000

var ErrComputeExceeded = errors.New("Compute exceeded")

type ComputeMeter struct {
	budget    uint64
	remaining uint64
	exceeded  bool
}

func NewComputeMeter(budget uint64) ComputeMeter {
	return ComputeMeter{budget: budget, remaining: budget}
}

func NewComputeMeterDefault() ComputeMeter {
	return NewComputeMeter(DefaultComputeBudget)
}

// Consume deducts cost. Once the meter runs dry it stays exhausted and
// every further charge fails.
func (cm *ComputeMeter) Consume(cost uint64) error {
	if cm.exceeded || cost > cm.remaining {
		cm.exceeded = true
		cm.remaining = 0
		return ErrComputeExceeded
	}
	cm.remaining = safemath.SaturatingSubU64(cm.remaining, cost)
	return nil
}

func (cm *ComputeMeter) Used() uint64 {
	return cm.budget - cm.remaining
}

func (cm *ComputeMeter) Exceeded() bool {
	return cm.exceeded
}

func (cm *ComputeMeter) Remaining() uint64 {
	return cm.remaining
}
