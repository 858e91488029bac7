package core

import (
	"errors"
	"fmt"
)

// ErrResultLost indicates the worker side of a completion slot went away
// without delivering a value. The dispatch runner always sends an Outcome
// (even for a panicking closure), so observing this means an internal
// consistency violation, not a user error. It is surfaced explicitly
// instead of leaving the consumer Pending forever.
var ErrResultLost = errors.New("completion slot closed without a result")

// PanicError carries the recovered value and stack trace of a closure that
// panicked on a worker goroutine. It is delivered through the completion
// slot as the Outcome's Err, so a panicking dispatch resolves to an explicit
// failure rather than a hang.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker panic: %v", e.Value)
}

// AsPanicError unwraps err into a *PanicError if it carries one.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
