package dispatch

import (
	"errors"
	"fmt"
)

// ErrRetryBudgetExceeded means repeated soft blocks burned through the
// rotation budget for a single dispatch.
var ErrRetryBudgetExceeded = errors.New("dispatch: retry budget exceeded")

// TransportError reports a connection failure or non-2xx status.
// No quota is charged and no retry is attempted at this layer.
type TransportError struct {
	Function   string
	Key        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dispatch %s: http status %d", e.Function, e.StatusCode)
	}
	return fmt.Sprintf("dispatch %s: %v", e.Function, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FormatError reports a response body that is not valid JSON.
type FormatError struct {
	Function string
	Key      string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dispatch %s: malformed response: %v", e.Function, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// RotationError reports a failed VPN identity rotation. It aborts the
// soft-block recovery sequence.
type RotationError struct {
	Function string
	Err      error
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("dispatch %s: identity rotation failed: %v", e.Function, e.Err)
}

func (e *RotationError) Unwrap() error { return e.Err }
