// Package invoker implements the invocation client: it dispatches a request
// envelope to a named target over the substrate and blocks the caller for a
// bounded duration.
//
// The timeout here is caller-owned and independent of any execution ceiling
// the substrate itself enforces: when it expires the caller's wait ends with
// ErrTimeout even if the substrate would eventually have returned. The client
// performs no retries; retrying is a policy decision that belongs to the
// typed adapter, because only the adapter knows whether its operation is
// safe to repeat.
package invoker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storywire/envelope"
	"storywire/substrate"
)

// ErrTimeout reports that the caller-side timeout elapsed before the target
// answered. For write operations this is an indeterminate outcome: the
// target may still have committed the write after the wait was abandoned.
var ErrTimeout = errors.New("invoker: call timed out")

// TransportError reports that the substrate could not deliver the envelope:
// the target is unreachable or rejected the payload before execution.
// Distinct from a normal error response produced by the target.
type TransportError struct {
	Target string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("invoker: transport failure invoking %q: %v", e.Target, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DefaultTimeout bounds a call when the caller does not supply its own.
const DefaultTimeout = 30 * time.Second

// Client dispatches envelopes over a substrate. It holds no per-call
// mutable state and is safe for concurrent use by any number of callers;
// one instance is shared across all typed adapters.
type Client struct {
	sub     substrate.Substrate
	timeout time.Duration
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the default per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the client logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client over the given substrate.
func New(sub substrate.Substrate, opts ...Option) *Client {
	c := &Client{
		sub:     sub,
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke dispatches env to target with the client's default timeout.
func (c *Client) Invoke(ctx context.Context, target string, env *envelope.Request) ([]byte, error) {
	return c.InvokeTimeout(ctx, target, env, c.timeout)
}

type result struct {
	raw []byte
	err error
}

// InvokeTimeout dispatches env to target and waits at most timeout for the
// raw response bytes. Exactly one of the return values is non-nil.
func (c *Client) InvokeTimeout(ctx context.Context, target string, env *envelope.Request, timeout time.Duration) ([]byte, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, &TransportError{Target: target, Err: err}
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	// Buffered so a late-returning substrate call never leaks a goroutine
	// blocked on send after the caller has given up.
	done := make(chan result, 1)
	go func() {
		raw, err := c.sub.Invoke(cctx, target, payload)
		done <- result{raw, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			// A substrate that honors cctx can report the expired deadline
			// through done before this select observes cctx.Done(); that is
			// still a timeout, not a delivery failure.
			if errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
				c.log.Warn("invoke timed out",
					zap.String("target", target),
					zap.String("request_id", env.RequestContext.RequestID),
					zap.Duration("timeout", timeout))
				return nil, fmt.Errorf("%w after %s invoking %q", ErrTimeout, timeout, target)
			}
			c.log.Warn("invoke failed",
				zap.String("target", target),
				zap.String("request_id", env.RequestContext.RequestID),
				zap.Error(res.err))
			return nil, &TransportError{Target: target, Err: res.err}
		}
		c.log.Debug("invoke ok",
			zap.String("target", target),
			zap.String("request_id", env.RequestContext.RequestID),
			zap.Duration("elapsed", time.Since(start)))
		return res.raw, nil
	case <-cctx.Done():
		if ctx.Err() != nil {
			// Caller cancellation, not the per-call bound.
			return nil, &TransportError{Target: target, Err: ctx.Err()}
		}
		c.log.Warn("invoke timed out",
			zap.String("target", target),
			zap.String("request_id", env.RequestContext.RequestID),
			zap.Duration("timeout", timeout))
		return nil, fmt.Errorf("%w after %s invoking %q", ErrTimeout, timeout, target)
	}
}
