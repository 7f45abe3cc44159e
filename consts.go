package memhold

import (
	"time"
)

// ElementSize is the memory cost of one element of a Block in bytes.
const ElementSize = 8

const (
	// 4 GiB worth of int64 values
	defaultElementCount = (4 << 30) / ElementSize

	defaultHoldDuration = 100 * time.Second
	defaultTickInterval = 30 * time.Second // log every 30s

	// number of tick samples kept for the exit summary
	defaultSampleRingSize = 10

	timestampLayout = "2006-01-02 15:04:05"
)

const (
	bytesPerMB = 1024 * 1024
	mbPerGB    = 1024
)

// State is a step of a job run.
type State uint8

const (
	StateStart State = iota
	StateAllocating
	StateHolding
	// StateDone means the hold period elapsed normally.
	StateDone
	// StateFailed means the allocation request could not be satisfied.
	StateFailed
	// StateCrashed means an unexpected fault ended the run.
	StateCrashed
	// StateInterrupted means the run context was cancelled while holding.
	StateInterrupted
)

var state2name = map[State]string{
	StateStart:       "start",
	StateAllocating:  "allocating",
	StateHolding:     "holding",
	StateDone:        "done",
	StateFailed:      "failed",
	StateCrashed:     "crashed",
	StateInterrupted: "interrupted",
}

func (s State) String() string {
	if name, ok := state2name[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s >= StateDone
}
