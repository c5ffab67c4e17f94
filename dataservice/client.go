// Package dataservice provides the typed adapters for every cross-service
// operation the data-service target serves. Each adapter validates its
// input, builds the request envelope, dispatches it through the shared
// invocation client, and classifies the result.
//
// Idempotency: read operations are safe to repeat and are retried here on
// transient failures. Create/update operations are NOT idempotent — a
// timeout after the target has already committed a write will, on retry,
// create a duplicate record — so writes are never retried and a timeout is
// surfaced as an indeterminate outcome, not a failure.
package dataservice

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"storywire/domain"
	"storywire/envelope"
	"storywire/invoker"
	"storywire/outcome"
	"storywire/route"
)

// DefaultTarget is the function name the data-service target runs under.
const DefaultTarget = "data-service-lambda"

// Client is the set of typed adapters. Stateless beyond read-only
// configuration; safe for concurrent use from any number of goroutines.
type Client struct {
	inv         *invoker.Client
	builder     *envelope.Builder
	target      string
	log         *zap.Logger
	readRetries uint64
	retryBase   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTarget overrides the target function name.
func WithTarget(target string) Option {
	return func(c *Client) { c.target = target }
}

// WithLogger sets the client logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBuilder replaces the envelope builder. Tests use this to pin the
// request id generator.
func WithBuilder(b *envelope.Builder) Option {
	return func(c *Client) { c.builder = b }
}

// WithReadRetries sets how many times a failed read is retried. Zero
// disables read retries. Writes are never retried regardless.
func WithReadRetries(n uint64) Option {
	return func(c *Client) { c.readRetries = n }
}

// New creates a data-service client over the shared invocation client.
func New(inv *invoker.Client, opts ...Option) *Client {
	c := &Client{
		inv:         inv,
		builder:     envelope.NewBuilder("storywire"),
		target:      DefaultTarget,
		log:         zap.NewNop(),
		readRetries: 2,
		retryBase:   100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call runs one operation end to end: descriptor lookup, envelope build,
// dispatch, interpretation. Every call traverses the same terminal states:
// success (true, nil), absent (false, nil), or a typed error.
func (c *Client) call(ctx context.Context, op string, pathParams, queryParams map[string]string, body, result any) (bool, error) {
	desc, err := route.Lookup(op)
	if err != nil {
		return false, err
	}
	env, err := c.builder.Build(desc, pathParams, queryParams, body)
	if err != nil {
		return false, &outcome.ValidationError{Op: op, Reason: err.Error()}
	}

	raw, err := c.inv.Invoke(ctx, c.target, env)
	var o outcome.Outcome
	if err != nil {
		o = outcome.FromInvokeError(err)
	} else {
		o = outcome.Interpret(raw, result)
	}

	switch o.Kind {
	case outcome.Success:
		return true, nil
	case outcome.Absent:
		return false, nil
	default:
		c.log.Warn("call failed",
			zap.String("op", op),
			zap.Stringer("kind", o.Kind),
			zap.Int("status", o.Status),
			zap.String("message", o.Message),
			zap.Error(o.Err))
		return false, outcome.NewCallError(op, o)
	}
}

// read is call plus the read-only retry policy: transient failures
// (server errors, timeouts) are retried with fibonacci backoff because
// reads have no side effect to duplicate. Transport failures are not
// retried anywhere; they need investigation, not repetition.
func (c *Client) read(ctx context.Context, op string, pathParams, queryParams map[string]string, result any) (bool, error) {
	if c.readRetries == 0 {
		return c.call(ctx, op, pathParams, queryParams, nil, result)
	}

	var found bool
	backoff := retry.WithMaxRetries(c.readRetries, retry.NewFibonacci(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		found, err = c.call(ctx, op, pathParams, queryParams, nil, result)
		var ce *outcome.CallError
		if errors.As(err, &ce) && ce.Retryable() {
			return retry.RetryableError(err)
		}
		return err
	})
	return found, err
}

type saveResult struct {
	Message string `json:"message"`
}

// SaveFilteredPosts stores a batch of filtered posts.
//
// Not idempotent: a Timeout error here is indeterminate — the batch may
// already be committed — and must never be treated as "nothing was saved".
func (c *Client) SaveFilteredPosts(ctx context.Context, posts []domain.FilteredPost) error {
	if len(posts) == 0 {
		return &outcome.ValidationError{Op: route.SaveFilteredPosts, Reason: "posts must not be empty"}
	}
	for _, p := range posts {
		if err := p.Validate(); err != nil {
			return &outcome.ValidationError{Op: route.SaveFilteredPosts, Reason: err.Error()}
		}
	}
	body := map[string]any{"posts": posts}
	var res saveResult
	_, err := c.call(ctx, route.SaveFilteredPosts, nil, nil, body, &res)
	return err
}

// ListRecentPosts returns up to limit recent posts, optionally restricted
// to one subreddit. Idempotent; retried on transient failures.
func (c *Client) ListRecentPosts(ctx context.Context, limit int, subreddit string) ([]domain.FilteredPost, error) {
	if limit <= 0 {
		return nil, &outcome.ValidationError{Op: route.ListRecentPosts, Reason: "limit must be positive"}
	}
	query := map[string]string{"limit": strconv.Itoa(limit)}
	if subreddit != "" {
		query["subreddit"] = subreddit
	}
	var posts []domain.FilteredPost
	if _, err := c.read(ctx, route.ListRecentPosts, nil, query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreateStorySummary creates a summary and returns the stored record.
// Not idempotent.
func (c *Client) CreateStorySummary(ctx context.Context, in domain.StorySummaryCreate) (*domain.StorySummary, error) {
	if err := in.Validate(); err != nil {
		return nil, &outcome.ValidationError{Op: route.CreateStorySummary, Reason: err.Error()}
	}
	var s domain.StorySummary
	if _, err := c.call(ctx, route.CreateStorySummary, nil, nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// StorySummaryByID fetches a summary by id. Returns (nil, nil) when no
// such summary exists. Idempotent; retried on transient failures.
func (c *Client) StorySummaryByID(ctx context.Context, id int64) (*domain.StorySummary, error) {
	if id <= 0 {
		return nil, &outcome.ValidationError{Op: route.GetStorySummaryByID, Reason: "id must be positive"}
	}
	var s domain.StorySummary
	found, err := c.read(ctx, route.GetStorySummaryByID, map[string]string{"id": strconv.FormatInt(id, 10)}, nil, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// StorySummaryByPostID fetches the summary for a post. Returns (nil, nil)
// when the post has no summary. Idempotent; retried on transient failures.
func (c *Client) StorySummaryByPostID(ctx context.Context, postID int64) (*domain.StorySummary, error) {
	if postID <= 0 {
		return nil, &outcome.ValidationError{Op: route.GetStorySummaryByPostID, Reason: "post_id must be positive"}
	}
	var s domain.StorySummary
	found, err := c.read(ctx, route.GetStorySummaryByPostID, map[string]string{"post_id": strconv.FormatInt(postID, 10)}, nil, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// CreatePublishedArticle creates an article and returns the stored record.
// Not idempotent.
func (c *Client) CreatePublishedArticle(ctx context.Context, in domain.PublishedArticleCreate) (*domain.PublishedArticle, error) {
	if err := in.Validate(); err != nil {
		return nil, &outcome.ValidationError{Op: route.CreatePublishedArticle, Reason: err.Error()}
	}
	var a domain.PublishedArticle
	if _, err := c.call(ctx, route.CreatePublishedArticle, nil, nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdatePublishedArticle applies a partial update and returns the updated
// record, or (nil, nil) when no article has that id. Not idempotent as a
// class, although individual field sets usually are.
func (c *Client) UpdatePublishedArticle(ctx context.Context, id int64, updates domain.PublishedArticleUpdate) (*domain.PublishedArticle, error) {
	if id <= 0 {
		return nil, &outcome.ValidationError{Op: route.UpdatePublishedArticle, Reason: "id must be positive"}
	}
	if err := updates.Validate(); err != nil {
		return nil, &outcome.ValidationError{Op: route.UpdatePublishedArticle, Reason: err.Error()}
	}
	var a domain.PublishedArticle
	found, err := c.call(ctx, route.UpdatePublishedArticle, map[string]string{"id": strconv.FormatInt(id, 10)}, nil, updates, &a)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

// Health probes the target's health route. A nil error means the target
// answered 2xx. Idempotent, but probes are not retried: a health check
// should report the first answer it gets.
func (c *Client) Health(ctx context.Context) error {
	found, err := c.call(ctx, route.HealthProbe, nil, nil, nil, nil)
	if err != nil {
		return err
	}
	if !found {
		return outcome.NewCallError(route.HealthProbe, outcome.Outcome{Kind: outcome.Absent, Status: 404})
	}
	return nil
}
