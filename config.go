package memhold

import (
	"time"

	"github.com/pkg/errors"
)

// Config for a memory hold job
type Config struct {
	// number of int64 elements in the block, ElementSize bytes each
	ElementCount int64

	// total time the block stays resident
	HoldDuration time.Duration
	// longest single sleep, a progress line follows each one
	TickInterval time.Duration
}

// DefaultConfig targets 4 GiB held for 100s with a progress line every 30s.
func DefaultConfig() Config {
	return Config{
		ElementCount: defaultElementCount,
		HoldDuration: defaultHoldDuration,
		TickInterval: defaultTickInterval,
	}
}

// TargetBytes is the footprint the block is expected to reach.
func (c Config) TargetBytes() uint64 {
	return uint64(c.ElementCount) * ElementSize
}

// Ticks is the number of progress lines a complete hold prints.
func (c Config) Ticks() int {
	if c.HoldDuration <= 0 || c.TickInterval <= 0 {
		return 0
	}
	n := c.HoldDuration / c.TickInterval
	if c.HoldDuration%c.TickInterval != 0 {
		n++
	}
	return int(n)
}

// Validate reports the first non-positive field.
func (c Config) Validate() error {
	if c.ElementCount <= 0 {
		return errors.Errorf("element count must be positive, got %d", c.ElementCount)
	}
	if c.HoldDuration <= 0 {
		return errors.Errorf("hold duration must be positive, got %v", c.HoldDuration)
	}
	if c.TickInterval <= 0 {
		return errors.Errorf("tick interval must be positive, got %v", c.TickInterval)
	}
	return nil
}
