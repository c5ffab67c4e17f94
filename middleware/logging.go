package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storywire/envelope"
)

// Logging logs one line per handled envelope, correlated by the request id
// the caller stamped into the envelope's context.
func Logging(log *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *envelope.Request) *envelope.Response {
			start := time.Now()
			resp := next(ctx, req)
			log.Info("handled",
				zap.String("method", req.HTTPMethod),
				zap.String("resource", req.Resource),
				zap.String("request_id", req.RequestContext.RequestID),
				zap.String("caller", req.RequestContext.Identity.UserAgent),
				zap.Int("status", resp.StatusCode),
				zap.Duration("elapsed", time.Since(start)))
			return resp
		}
	}
}
