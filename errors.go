package memhold

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrIntrospectionUnavailable means the resident memory of the current
	// process cannot be read on this host.
	ErrIntrospectionUnavailable = errors.New("process memory introspection unavailable")

	// ErrAllocationFailed is matched by every *AllocationError.
	ErrAllocationFailed = errors.New("allocation request could not be satisfied")

	// ErrInterrupted is returned when the run context is cancelled during the hold.
	ErrInterrupted = errors.New("hold interrupted")
)

// AllocationError describes a request the allocator refused.
type AllocationError struct {
	Elements int64
	Cause    error
}

func (e *AllocationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%v: %d elements", ErrAllocationFailed, e.Elements)
	}
	return fmt.Sprintf("%v: %d elements: %v", ErrAllocationFailed, e.Elements, e.Cause)
}

func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocationFailed
}

func (e *AllocationError) Unwrap() error {
	return e.Cause
}

func newAllocationError(n int64, cause error) error {
	return errors.WithStack(&AllocationError{Elements: n, Cause: cause})
}

// IsAllocationFailure reports whether err is an allocation failure rather
// than an unexpected fault.
func IsAllocationFailure(err error) bool {
	return errors.Is(err, ErrAllocationFailed)
}

// panicError converts a recovered panic value into an error.
func panicError(v interface{}) error {
	if err, ok := v.(error); ok {
		return errors.WithStack(err)
	}
	return errors.Errorf("%v", v)
}
