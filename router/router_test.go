package router

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"storywire/envelope"
	"storywire/middleware"
)

func serve(t *testing.T, r *Router, req *envelope.Request) *envelope.Response {
	t.Helper()
	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := r.Serve(context.Background(), payload)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	var resp envelope.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return &resp
}

func TestDispatchExactPath(t *testing.T) {
	r := New(zap.NewNop())
	r.Handle("GET", "/health", func(ctx context.Context, req *envelope.Request) *envelope.Response {
		return envelope.NewResponse(200, map[string]string{"status": "healthy"})
	})

	resp := serve(t, r, &envelope.Request{HTTPMethod: "GET", Path: "/health"})
	if resp.StatusCode != 200 {
		t.Fatalf("expect 200, got %d", resp.StatusCode)
	}
}

func TestDispatchExtractsPathParams(t *testing.T) {
	r := New(zap.NewNop())
	var got map[string]string
	r.Handle("GET", "/api/v1/story-summaries/by-post/{post_id}", func(ctx context.Context, req *envelope.Request) *envelope.Response {
		got = req.PathParameters
		return envelope.NewResponse(200, nil)
	})

	serve(t, r, &envelope.Request{HTTPMethod: "GET", Path: "/api/v1/story-summaries/by-post/42"})
	if got["post_id"] != "42" {
		t.Fatalf("expect post_id=42, got %v", got)
	}
}

func TestDispatchUnescapesPathParams(t *testing.T) {
	r := New(zap.NewNop())
	var got map[string]string
	r.Handle("GET", "/api/v1/story-summaries/{id}", func(ctx context.Context, req *envelope.Request) *envelope.Response {
		got = req.PathParameters
		return envelope.NewResponse(200, nil)
	})

	// The builder percent-escapes values into the path; captures must come
	// back out as the original value.
	serve(t, r, &envelope.Request{HTTPMethod: "GET", Path: "/api/v1/story-summaries/a%20b%2Fc"})
	if got["id"] != "a b/c" {
		t.Fatalf("expect id=%q, got %v", "a b/c", got)
	}
}

func TestDispatchStripsQueryString(t *testing.T) {
	r := New(zap.NewNop())
	called := false
	r.Handle("GET", "/api/v1/reddit/posts", func(ctx context.Context, req *envelope.Request) *envelope.Response {
		called = true
		return envelope.NewResponse(200, nil)
	})

	serve(t, r, &envelope.Request{HTTPMethod: "GET", Path: "/api/v1/reddit/posts?limit=10"})
	if !called {
		t.Fatal("handler not reached for path with query string")
	}
}

func TestDispatchNotFound(t *testing.T) {
	r := New(zap.NewNop())
	resp := serve(t, r, &envelope.Request{HTTPMethod: "GET", Path: "/nope"})
	if resp.StatusCode != 404 {
		t.Fatalf("expect 404, got %d", resp.StatusCode)
	}
}

func TestDispatchMethodNotAllowed(t *testing.T) {
	r := New(zap.NewNop())
	r.Handle("GET", "/health", func(ctx context.Context, req *envelope.Request) *envelope.Response {
		return envelope.NewResponse(200, nil)
	})

	resp := serve(t, r, &envelope.Request{HTTPMethod: "POST", Path: "/health"})
	if resp.StatusCode != 405 {
		t.Fatalf("expect 405, got %d", resp.StatusCode)
	}
}

// A payload that is not a request envelope is rejected before any handler
// runs: a transport-level failure, not a status response.
func TestMalformedEnvelopeIsTransportError(t *testing.T) {
	r := New(zap.NewNop())
	if _, err := r.Serve(context.Background(), []byte("not json")); err == nil {
		t.Fatal("expect error for malformed envelope")
	}
}

func TestMiddlewareRuns(t *testing.T) {
	r := New(zap.NewNop())
	seen := false
	r.Use(func(next middleware.HandlerFunc) middleware.HandlerFunc {
		return func(ctx context.Context, req *envelope.Request) *envelope.Response {
			seen = true
			return next(ctx, req)
		}
	})
	r.Handle("GET", "/health", func(ctx context.Context, req *envelope.Request) *envelope.Response {
		return envelope.NewResponse(200, nil)
	})

	serve(t, r, &envelope.Request{HTTPMethod: "GET", Path: "/health"})
	if !seen {
		t.Fatal("middleware did not run")
	}
}
