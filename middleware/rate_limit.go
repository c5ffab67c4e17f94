package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"storywire/envelope"
)

// RateLimit rejects requests beyond r per second (token bucket of the
// given burst) with a 429 response.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *envelope.Request) *envelope.Response {
			if !limiter.Allow() {
				return envelope.ErrorResponse(429, "rate limit exceeded")
			}
			return next(ctx, req)
		}
	}
}
