// Package router dispatches request envelopes to route handlers on the
// target side of the substrate.
//
// Processing pipeline:
//
//	substrate payload → decode Request → middleware chain → matched handler
//	  → Response → encode payload
//
// A router never returns a transport error for an in-protocol problem:
// unknown paths become 404 responses and method mismatches 405, so the
// caller's interpreter sees a classified status, not a broken envelope.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"storywire/envelope"
	"storywire/middleware"
)

type routeEntry struct {
	method   string
	segments []string // template split on "/", "{name}" segments capture
	handler  middleware.HandlerFunc
}

// Router maps (method, path template) pairs to handlers and exposes the
// whole table as a single substrate handler.
type Router struct {
	routes      []routeEntry
	middlewares []middleware.Middleware
	once        sync.Once
	chain       middleware.Middleware
	log         *zap.Logger
}

// New creates an empty router.
func New(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{log: log}
}

// Use registers a middleware. Middlewares run in registration order and
// must all be registered before the first dispatch.
func (r *Router) Use(mw middleware.Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

// Handle registers a handler for a method and path template, e.g.
// ("GET", "/api/v1/story-summaries/{id}").
func (r *Router) Handle(method, template string, h middleware.HandlerFunc) {
	r.routes = append(r.routes, routeEntry{
		method:   method,
		segments: splitPath(template),
		handler:  h,
	})
}

// Serve is the substrate-facing entry point: it decodes the raw request
// envelope, dispatches it, and encodes the response envelope.
func (r *Router) Serve(ctx context.Context, payload []byte) ([]byte, error) {
	// Build the chain once, on first dispatch, like the server builds its
	// handler once at startup.
	r.once.Do(func() {
		r.chain = middleware.Chain(r.middlewares...)
	})

	var req envelope.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		// Malformed envelope: rejected before any handler runs, so this is
		// a transport-level failure, not a status response.
		return nil, fmt.Errorf("router: malformed request envelope: %w", err)
	}

	resp := r.chain(r.dispatch)(ctx, &req)
	return json.Marshal(resp)
}

// dispatch matches the request path against the route table and runs the
// matched handler with path parameters extracted from the concrete path.
func (r *Router) dispatch(ctx context.Context, req *envelope.Request) *envelope.Response {
	path := req.Path
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := splitPath(path)

	methodMismatch := false
	for _, entry := range r.routes {
		params, ok := match(entry.segments, segments)
		if !ok {
			continue
		}
		if entry.method != req.HTTPMethod {
			methodMismatch = true
			continue
		}
		// The concrete path is authoritative for path parameters; the
		// builder-supplied map is advisory.
		if len(params) > 0 {
			req.PathParameters = params
		}
		return entry.handler(ctx, req)
	}

	if methodMismatch {
		return envelope.ErrorResponse(405, fmt.Sprintf("method %s not allowed", req.HTTPMethod))
	}
	r.log.Warn("no route", zap.String("method", req.HTTPMethod), zap.String("path", path))
	return envelope.ErrorResponse(404, "not found")
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

// match compares a concrete path against template segments, collecting
// "{name}" captures. Returns nil, false on any mismatch.
func match(template, path []string) (map[string]string, bool) {
	if len(template) != len(path) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range template {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if path[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			// The builder percent-escapes parameter values into the path;
			// undo that so handlers see the original value.
			value := path[i]
			if unescaped, err := url.PathUnescape(value); err == nil {
				value = unescaped
			}
			params[seg[1:len(seg)-1]] = value
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}
