// Package middleware wraps target-side envelope handlers with cross-cutting
// behavior: logging, rate limiting, and an execution ceiling.
package middleware

import (
	"context"

	"storywire/envelope"
)

// HandlerFunc processes one request envelope and always produces a
// response envelope; failures are expressed as error-status responses,
// never as a missing response.
type HandlerFunc func(ctx context.Context, req *envelope.Request) *envelope.Response

// Middleware wraps a handler with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares into one. Chain(A, B, C)(h) runs A first on
// the way in and last on the way out.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
