package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilteredPostValidate(t *testing.T) {
	valid := FilteredPost{
		Source:    "reddit",
		Subreddit: "programming",
		Title:     "title",
		URL:       "https://example.com",
		Author:    "author",
		Score:     10,
		Comments:  2,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*FilteredPost)
		want   string
	}{
		{"missing subreddit", func(p *FilteredPost) { p.Subreddit = "" }, "subreddit is required"},
		{"missing title", func(p *FilteredPost) { p.Title = "" }, "title is required"},
		{"missing url", func(p *FilteredPost) { p.URL = "" }, "url is required"},
		{"missing author", func(p *FilteredPost) { p.Author = "" }, "author is required"},
		{"negative score", func(p *FilteredPost) { p.Score = -1 }, "score must be non-negative"},
		{"negative comments", func(p *FilteredPost) { p.Comments = -1 }, "comments must be non-negative"},
		{"negative normalized score", func(p *FilteredPost) { p.NormalizedScore = -0.5 }, "normalized_score must be non-negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNormalizeScore(t *testing.T) {
	p := FilteredPost{Score: 100, Comments: 40}
	assert.Equal(t, 120.0, p.NormalizeScore())
}

func TestStorySummaryCreateValidate(t *testing.T) {
	valid := StorySummaryCreate{
		PostID:         1,
		Title:          "title",
		Summary:        "summary",
		GeneratedStory: "story",
		ModelUsed:      "model",
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.PostID = 0
	assert.ErrorContains(t, bad.Validate(), "post_id must be positive")

	bad = valid
	bad.GeneratedStory = ""
	assert.ErrorContains(t, bad.Validate(), "generated_story is required")
}

func TestPublishedArticleCreateValidate(t *testing.T) {
	valid := PublishedArticleCreate{
		StorySummaryID: 1,
		Title:          "title",
		Content:        "content",
		SEOTitle:       "seo",
		SEODescription: "desc",
	}
	require.NoError(t, valid.Validate())

	// Status is optional on create; the store defaults it.
	valid.Status = ""
	require.NoError(t, valid.Validate())

	bad := valid
	bad.SEODescription = ""
	assert.ErrorContains(t, bad.Validate(), "seo_description is required")
}

func TestPublishedArticleUpdateValidate(t *testing.T) {
	assert.Error(t, PublishedArticleUpdate{}.Validate())
	assert.NoError(t, PublishedArticleUpdate{"status": "published"}.Validate())
}
