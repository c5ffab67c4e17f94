package envelope

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storywire/route"
)

func fixedBuilder() *Builder {
	return NewBuilder("summarizer-service",
		WithStage("test"),
		WithIDGenerator(FixedGenerator{ID: "req-0001"}),
		WithClock(func() time.Time { return time.Unix(1704067200, 0).UTC() }))
}

func TestBuildDeterministicExceptRequestID(t *testing.T) {
	desc, err := route.Lookup(route.GetStorySummaryByID)
	require.NoError(t, err)

	b := NewBuilder("summarizer-service",
		WithClock(func() time.Time { return time.Unix(1704067200, 0).UTC() }))

	first, err := b.Build(desc, map[string]string{"id": "42"}, nil, nil)
	require.NoError(t, err)
	second, err := b.Build(desc, map[string]string{"id": "42"}, nil, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.RequestContext.RequestID, second.RequestContext.RequestID)

	// Everything else is structurally identical.
	first.RequestContext.RequestID = ""
	second.RequestContext.RequestID = ""
	assert.Equal(t, first, second)
}

func TestBuildPathSubstitution(t *testing.T) {
	desc, err := route.Lookup(route.GetStorySummaryByPostID)
	require.NoError(t, err)

	env, err := fixedBuilder().Build(desc, map[string]string{"post_id": "42"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/story-summaries/by-post/42", env.Path)
	assert.Equal(t, "/api/v1/story-summaries/by-post/{post_id}", env.Resource)
	assert.Equal(t, "GET", env.HTTPMethod)
	assert.Nil(t, env.Body)
	assert.Equal(t, map[string]string{"post_id": "42"}, env.PathParameters)
}

func TestBuildMissingPathParam(t *testing.T) {
	desc, err := route.Lookup(route.GetStorySummaryByID)
	require.NoError(t, err)

	_, err = fixedBuilder().Build(desc, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing path parameter "id"`)
}

func TestBuildUndeclaredPathParam(t *testing.T) {
	desc, err := route.Lookup(route.GetStorySummaryByID)
	require.NoError(t, err)

	_, err = fixedBuilder().Build(desc, map[string]string{"id": "1", "extra": "x"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undeclared path parameter "extra"`)
}

func TestBuildQueryEncoding(t *testing.T) {
	desc, err := route.Lookup(route.ListRecentPosts)
	require.NoError(t, err)

	env, err := fixedBuilder().Build(desc, nil, map[string]string{
		"limit":     "10",
		"subreddit": "ask science",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/reddit/posts?limit=10&subreddit=ask+science", env.Path)
	assert.Equal(t, "/api/v1/reddit/posts", env.Resource)
	assert.Equal(t, map[string]string{"limit": "10", "subreddit": "ask science"}, env.QueryStringParameters)
}

func TestBuildBodyRules(t *testing.T) {
	create, err := route.Lookup(route.CreateStorySummary)
	require.NoError(t, err)
	get, err := route.Lookup(route.GetStorySummaryByID)
	require.NoError(t, err)

	b := fixedBuilder()

	env, err := b.Build(create, nil, nil, map[string]any{"post_id": 7})
	require.NoError(t, err)
	require.NotNil(t, env.Body)
	assert.JSONEq(t, `{"post_id":7}`, *env.Body)

	_, err = b.Build(create, nil, nil, nil)
	assert.ErrorContains(t, err, "requires a body")

	_, err = b.Build(get, map[string]string{"id": "1"}, nil, map[string]any{"x": 1})
	assert.ErrorContains(t, err, "takes no body")
}

func TestBuildDoesNotAliasCallerMaps(t *testing.T) {
	desc, err := route.Lookup(route.GetStorySummaryByID)
	require.NoError(t, err)

	params := map[string]string{"id": "1"}
	env, err := fixedBuilder().Build(desc, params, nil, nil)
	require.NoError(t, err)

	params["id"] = "mutated"
	assert.Equal(t, "1", env.PathParameters["id"])
}

func TestBuildGoldenWire(t *testing.T) {
	desc, err := route.Lookup(route.CreateStorySummary)
	require.NoError(t, err)

	env, err := fixedBuilder().Build(desc, nil, nil, map[string]any{
		"post_id":         7,
		"title":           "t",
		"summary":         "s",
		"generated_story": "g",
		"model_used":      "m",
	})
	require.NoError(t, err)

	raw, err := json.MarshalIndent(env, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithNameSuffix(".golden"))
	g.Assert(t, "create_story_summary_request", raw)
}
