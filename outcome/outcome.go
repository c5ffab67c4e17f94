// Package outcome classifies the result of one cross-service call into a
// closed set of terminal states. Every call produces exactly one outcome;
// no non-success path is ever coerced into an empty success value.
package outcome

import (
	"errors"
	"fmt"
)

// Kind is the terminal state of a dispatched call.
type Kind int

const (
	// Success: the target answered 2xx and the body decoded cleanly.
	Success Kind = iota
	// Absent: the target answered 404. Not an error for read operations.
	Absent
	// ClientError: a non-404 4xx. The request was wrong; never retried.
	ClientError
	// ServerError: a 5xx. Retryable at the caller's discretion.
	ServerError
	// Timeout: the caller-side bound elapsed. Indeterminate for writes.
	Timeout
	// TransportFailure: the substrate could not deliver the envelope.
	TransportFailure
	// DecodeFailure: the response did not match the expected shape.
	// A contract violation, always surfaced, never defaulted away.
	DecodeFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Absent:
		return "absent"
	case ClientError:
		return "client_error"
	case ServerError:
		return "server_error"
	case Timeout:
		return "timeout"
	case TransportFailure:
		return "transport_failure"
	case DecodeFailure:
		return "decode_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the classified result of one call.
type Outcome struct {
	Kind    Kind
	Status  int    // status code from the response envelope, 0 if none arrived
	Message string // verbatim target error text for Client/ServerError
	Err     error  // underlying cause for Timeout/TransportFailure/DecodeFailure
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool { return o.Kind == Success }

// Indeterminate reports whether the target's side effect is unknown: the
// call timed out, so a write may or may not have committed.
func (o Outcome) Indeterminate() bool { return o.Kind == Timeout }

// ValidationError reports invalid domain input caught before any I/O.
// Local and never retried.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Reason)
}

// CallError is the typed error an adapter raises for any non-success,
// non-absent outcome.
type CallError struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *CallError) Error() string {
	switch e.Kind {
	case ClientError, ServerError:
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *CallError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the call is reasonable for an
// idempotent operation. Timeouts and transient server faults qualify.
// Transport failures do not: an unreachable or rejecting target points at
// misconfiguration, which repetition will not cure. Client errors and
// contract violations never qualify.
func (e *CallError) Retryable() bool {
	switch e.Kind {
	case ServerError, Timeout:
		return true
	default:
		return false
	}
}

// NewCallError wraps a non-success outcome as an adapter error.
func NewCallError(op string, o Outcome) *CallError {
	return &CallError{Op: op, Kind: o.Kind, Status: o.Status, Message: o.Message, Err: o.Err}
}

// KindOf extracts the outcome kind from an adapter error. The second
// return is false for nil or untyped errors.
func KindOf(err error) (Kind, bool) {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}

// IsIndeterminate reports whether err is a timeout, meaning a write's
// effect is unknown and must not be treated as a confirmed failure.
func IsIndeterminate(err error) bool {
	k, ok := KindOf(err)
	return ok && k == Timeout
}
