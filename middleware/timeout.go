package middleware

import (
	"context"
	"time"

	"storywire/envelope"
)

// Timeout bounds handler execution. A handler that overruns gets a 504
// response; this is the target's own ceiling, separate from the
// caller-side timeout the invocation client enforces.
func Timeout(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *envelope.Request) *envelope.Response {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan *envelope.Response, 1)
			go func() {
				done <- next(ctx, req)
			}()

			select {
			case resp := <-done:
				return resp
			case <-ctx.Done():
				return envelope.ErrorResponse(504, "request timed out")
			}
		}
	}
}
