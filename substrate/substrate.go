// Package substrate abstracts the invoke-by-name primitive: run a named
// function handler synchronously and return its raw result.
//
// In production the substrate is the platform SDK; this package is the seam
// plus a Local in-process implementation used by the CLI, tests, and any
// target stub.
package substrate

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Substrate dispatches a payload to a named target and blocks for the
// result. Implementations must be safe for concurrent use.
type Substrate interface {
	Invoke(ctx context.Context, target string, payload []byte) ([]byte, error)
}

// HandlerFunc is one registered target: it receives the raw request payload
// and returns the raw response payload.
type HandlerFunc func(ctx context.Context, payload []byte) ([]byte, error)

// ErrUnknownTarget is returned when no handler is registered under the
// requested name. Callers classify it as a transport failure: the envelope
// was rejected before any target executed.
var ErrUnknownTarget = errors.New("substrate: unknown target")

// Local is an in-process substrate: a registry of named handlers invoked
// synchronously on the caller's goroutine.
type Local struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewLocal creates an empty in-process substrate.
func NewLocal() *Local {
	return &Local{handlers: make(map[string]HandlerFunc)}
}

// Register installs a handler under the target name, replacing any
// previous registration. Registration must happen before dispatch.
func (l *Local) Register(target string, h HandlerFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[target] = h
}

// Invoke runs the named handler and returns its result.
func (l *Local) Invoke(ctx context.Context, target string, payload []byte) ([]byte, error) {
	l.mu.RLock()
	h, ok := l.handlers[target]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	return h(ctx, payload)
}
