package envelope

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"storywire/route"
)

// IDGenerator yields the request id stamped into each envelope's context.
// Implemented by UUIDGenerator (production) and FixedGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator produces random UUIDv4 request ids.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string { return uuid.NewString() }

// FixedGenerator always returns the same id. Test use only.
type FixedGenerator struct {
	ID string
}

func (g FixedGenerator) Generate() string { return g.ID }

// Builder turns an operation descriptor plus call parameters into a
// self-contained request envelope. It owns all the synthetic context
// boilerplate so adapters never duplicate it.
//
// Building is a pure function of its inputs except for the generated
// request id and timestamp. No I/O is performed; a build failure is a
// local programming error, never a network failure.
type Builder struct {
	stage     string
	sourceIP  string
	userAgent string
	ids       IDGenerator
	now       func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithIDGenerator replaces the request id source.
func WithIDGenerator(g IDGenerator) BuilderOption {
	return func(b *Builder) { b.ids = g }
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// WithStage sets the stage advertised in the request context.
func WithStage(stage string) BuilderOption {
	return func(b *Builder) { b.stage = stage }
}

// NewBuilder creates a Builder that identifies the caller as userAgent
// in every envelope's identity block.
func NewBuilder(userAgent string, opts ...BuilderOption) *Builder {
	b := &Builder{
		stage:     "prod",
		sourceIP:  "127.0.0.1",
		userAgent: userAgent,
		ids:       UUIDGenerator{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs the request envelope for one call.
//
// Path parameters are substituted into the descriptor's template; a missing
// declared parameter or a supplied undeclared parameter is an error. Query
// parameter values are URL-encoded into the path. The body is serialized to
// JSON text when the descriptor requires one; body-less operations get a
// nil body.
func (b *Builder) Build(desc route.Descriptor, pathParams, queryParams map[string]string, body any) (*Request, error) {
	path, err := expandPath(desc, pathParams)
	if err != nil {
		return nil, err
	}

	resource := desc.PathTemplate
	fullPath := path
	if len(queryParams) > 0 {
		values := url.Values{}
		for k, v := range queryParams {
			values.Set(k, v)
		}
		fullPath = path + "?" + values.Encode()
	}

	var bodyText *string
	switch {
	case desc.RequiresBody && body != nil:
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("envelope: marshal body for %s: %w", desc.Name, err)
		}
		s := string(raw)
		bodyText = &s
	case desc.RequiresBody:
		return nil, fmt.Errorf("envelope: operation %s requires a body", desc.Name)
	case body != nil:
		return nil, fmt.Errorf("envelope: operation %s takes no body", desc.Name)
	}

	now := b.now()
	return &Request{
		Resource:   resource,
		Path:       fullPath,
		HTTPMethod: desc.Method,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		},
		QueryStringParameters: copyParams(queryParams),
		PathParameters:        copyParams(pathParams),
		RequestContext: RequestContext{
			Stage:            b.stage,
			RequestID:        b.ids.Generate(),
			RequestTimeEpoch: now.UnixMilli(),
			ResourcePath:     resource,
			HTTPMethod:       desc.Method,
			Protocol:         "HTTP/1.1",
			Identity: Identity{
				SourceIP:  b.sourceIP,
				UserAgent: b.userAgent,
			},
		},
		Body:            bodyText,
		IsBase64Encoded: false,
	}, nil
}

// expandPath substitutes path parameters into the template and verifies the
// declared and supplied parameter sets match exactly.
func expandPath(desc route.Descriptor, params map[string]string) (string, error) {
	declared := desc.Params()
	path := desc.PathTemplate
	for _, name := range declared {
		value, ok := params[name]
		if !ok {
			return "", fmt.Errorf("envelope: missing path parameter %q for %s", name, desc.Name)
		}
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	if len(params) > len(declared) {
		declaredSet := make(map[string]bool, len(declared))
		for _, name := range declared {
			declaredSet[name] = true
		}
		for name := range params {
			if !declaredSet[name] {
				return "", fmt.Errorf("envelope: undeclared path parameter %q for %s", name, desc.Name)
			}
		}
	}
	return path, nil
}

// copyParams returns a private copy so the envelope cannot observe later
// mutation of the caller's map. nil stays nil to keep the wire shape's
// explicit nulls.
func copyParams(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
