// Package domain holds the cross-service data shapes: filtered Reddit
// posts, story summaries, and published articles. JSON tags follow the
// wire contract the data-service target expects.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// RedditComment is one of a post's top comments.
type RedditComment struct {
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// FilteredPost is a Reddit post that passed the fetch-side filter.
type FilteredPost struct {
	Source          string          `json:"source"`
	Subreddit       string          `json:"subreddit"`
	Title           string          `json:"title"`
	URL             string          `json:"url"`
	Author          string          `json:"author"`
	Score           int             `json:"score"`
	Comments        int             `json:"comments"`
	TopComments     []RedditComment `json:"top_comments,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	NormalizedScore float64         `json:"normalized_score"`
	FetchedAt       *time.Time      `json:"fetched_at,omitempty"`
	PostText        string          `json:"post_text"`
}

// NormalizeScore computes the ranking score used when none was supplied:
// raw score plus half a point per comment.
func (p FilteredPost) NormalizeScore() float64 {
	return float64(p.Score) + float64(p.Comments)*0.5
}

// Validate reports the first invalid field, if any.
func (p FilteredPost) Validate() error {
	switch {
	case p.Subreddit == "":
		return errors.New("subreddit is required")
	case p.Title == "":
		return errors.New("title is required")
	case p.URL == "":
		return errors.New("url is required")
	case p.Author == "":
		return errors.New("author is required")
	case p.Score < 0:
		return fmt.Errorf("score must be non-negative, got %d", p.Score)
	case p.Comments < 0:
		return fmt.Errorf("comments must be non-negative, got %d", p.Comments)
	case p.NormalizedScore < 0:
		return fmt.Errorf("normalized_score must be non-negative, got %v", p.NormalizedScore)
	}
	return nil
}

// StorySummaryCreate is the payload for creating a story summary.
type StorySummaryCreate struct {
	PostID             int64          `json:"post_id"`
	Title              string         `json:"title"`
	Summary            string         `json:"summary"`
	GeneratedStory     string         `json:"generated_story"`
	ModelUsed          string         `json:"model_used"`
	GenerationMetadata map[string]any `json:"generation_metadata,omitempty"`
}

// Validate reports the first invalid field, if any.
func (s StorySummaryCreate) Validate() error {
	switch {
	case s.PostID <= 0:
		return fmt.Errorf("post_id must be positive, got %d", s.PostID)
	case s.Title == "":
		return errors.New("title is required")
	case s.Summary == "":
		return errors.New("summary is required")
	case s.GeneratedStory == "":
		return errors.New("generated_story is required")
	case s.ModelUsed == "":
		return errors.New("model_used is required")
	}
	return nil
}

// StorySummary is a stored story summary.
type StorySummary struct {
	ID                 int64          `json:"id"`
	PostID             int64          `json:"post_id"`
	Title              string         `json:"title"`
	Summary            string         `json:"summary"`
	GeneratedStory     string         `json:"generated_story"`
	ModelUsed          string         `json:"model_used"`
	GenerationMetadata map[string]any `json:"generation_metadata,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// PublishedArticleCreate is the payload for creating a published article.
type PublishedArticleCreate struct {
	StorySummaryID     int64          `json:"story_summary_id"`
	Title              string         `json:"title"`
	Content            string         `json:"content"`
	SEOTitle           string         `json:"seo_title"`
	SEODescription     string         `json:"seo_description"`
	FeaturedImageURL   string         `json:"featured_image_url,omitempty"`
	Tags               []string       `json:"tags"`
	Status             string         `json:"status"`
	GenerationMetadata map[string]any `json:"generation_metadata,omitempty"`
}

// Validate reports the first invalid field, if any. An empty status is
// allowed and defaults to draft on the target side.
func (a PublishedArticleCreate) Validate() error {
	switch {
	case a.StorySummaryID <= 0:
		return fmt.Errorf("story_summary_id must be positive, got %d", a.StorySummaryID)
	case a.Title == "":
		return errors.New("title is required")
	case a.Content == "":
		return errors.New("content is required")
	case a.SEOTitle == "":
		return errors.New("seo_title is required")
	case a.SEODescription == "":
		return errors.New("seo_description is required")
	}
	return nil
}

// PublishedArticle is a stored article, possibly already pushed to the
// publishing platform.
type PublishedArticle struct {
	ID                 int64          `json:"id"`
	StorySummaryID     int64          `json:"story_summary_id"`
	Title              string         `json:"title"`
	Content            string         `json:"content"`
	SEOTitle           string         `json:"seo_title"`
	SEODescription     string         `json:"seo_description"`
	FeaturedImageURL   string         `json:"featured_image_url,omitempty"`
	Tags               []string       `json:"tags"`
	Status             string         `json:"status"`
	WordpressPostID    *int64         `json:"wordpress_post_id,omitempty"`
	WordpressURL       string         `json:"wordpress_url,omitempty"`
	PublishAttempts    int            `json:"publish_attempts"`
	GenerationMetadata map[string]any `json:"generation_metadata,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	PublishedAt        *time.Time     `json:"published_at,omitempty"`
	LastUpdatedAt      *time.Time     `json:"last_updated_at,omitempty"`
}

// PublishedArticleUpdate is a partial update keyed by wire field name.
type PublishedArticleUpdate map[string]any

// Validate rejects empty update sets.
func (u PublishedArticleUpdate) Validate() error {
	if len(u) == 0 {
		return errors.New("update must set at least one field")
	}
	return nil
}
