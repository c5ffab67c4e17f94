package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storywire/domain"
)

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	mu sync.RWMutex

	posts []domain.FilteredPost

	summaries     map[int64]*domain.StorySummary
	summaryByPost map[int64]int64 // post id → summary id
	nextSummaryID int64

	articles      map[int64]*domain.PublishedArticle
	nextArticleID int64

	now func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		summaries:     make(map[int64]*domain.StorySummary),
		summaryByPost: make(map[int64]int64),
		nextSummaryID: 1,
		articles:      make(map[int64]*domain.PublishedArticle),
		nextArticleID: 1,
		now:           time.Now,
	}
}

// SavePosts appends the batch and returns how many were stored.
func (m *Memory) SavePosts(_ context.Context, posts []domain.FilteredPost) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for _, p := range posts {
		if p.FetchedAt == nil {
			t := now
			p.FetchedAt = &t
		}
		m.posts = append(m.posts, p)
	}
	return len(posts), nil
}

// RecentPosts returns up to limit posts, newest first, optionally filtered
// by subreddit.
func (m *Memory) RecentPosts(_ context.Context, limit int, subreddit string) ([]domain.FilteredPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.FilteredPost, 0, limit)
	for _, p := range m.posts {
		if subreddit != "" && p.Subreddit != subreddit {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CreateSummary stores a new summary. One summary per post: a second create
// for the same post id fails.
func (m *Memory) CreateSummary(_ context.Context, in domain.StorySummaryCreate) (*domain.StorySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.summaryByPost[in.PostID]; exists {
		return nil, fmt.Errorf("summary already exists for post %d", in.PostID)
	}
	s := &domain.StorySummary{
		ID:                 m.nextSummaryID,
		PostID:             in.PostID,
		Title:              in.Title,
		Summary:            in.Summary,
		GeneratedStory:     in.GeneratedStory,
		ModelUsed:          in.ModelUsed,
		GenerationMetadata: in.GenerationMetadata,
		CreatedAt:          m.now(),
	}
	m.nextSummaryID++
	m.summaries[s.ID] = s
	m.summaryByPost[s.PostID] = s.ID
	return cloneSummary(s), nil
}

func (m *Memory) SummaryByID(_ context.Context, id int64) (*domain.StorySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSummary(m.summaries[id]), nil
}

func (m *Memory) SummaryByPostID(_ context.Context, postID int64) (*domain.StorySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.summaryByPost[postID]
	if !ok {
		return nil, nil
	}
	return cloneSummary(m.summaries[id]), nil
}

// CreateArticle stores a new article. Status defaults to draft.
func (m *Memory) CreateArticle(_ context.Context, in domain.PublishedArticleCreate) (*domain.PublishedArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := in.Status
	if status == "" {
		status = "draft"
	}
	a := &domain.PublishedArticle{
		ID:                 m.nextArticleID,
		StorySummaryID:     in.StorySummaryID,
		Title:              in.Title,
		Content:            in.Content,
		SEOTitle:           in.SEOTitle,
		SEODescription:     in.SEODescription,
		FeaturedImageURL:   in.FeaturedImageURL,
		Tags:               in.Tags,
		Status:             status,
		GenerationMetadata: in.GenerationMetadata,
		CreatedAt:          m.now(),
	}
	m.nextArticleID++
	m.articles[a.ID] = a
	return cloneArticle(a), nil
}

// UpdateArticle applies a partial update; unknown fields are rejected so a
// typo never silently becomes a no-op.
func (m *Memory) UpdateArticle(_ context.Context, id int64, updates domain.PublishedArticleUpdate) (*domain.PublishedArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, nil
	}
	// Apply against a copy and install it only when every field applies;
	// a rejected field must leave the stored record untouched.
	updated := cloneArticle(a)
	for field, value := range updates {
		if err := applyArticleField(updated, field, value); err != nil {
			return nil, err
		}
	}
	now := m.now()
	updated.LastUpdatedAt = &now
	m.articles[id] = updated
	return cloneArticle(updated), nil
}

func applyArticleField(a *domain.PublishedArticle, field string, value any) error {
	switch field {
	case "title":
		return setString(field, value, &a.Title)
	case "content":
		return setString(field, value, &a.Content)
	case "seo_title":
		return setString(field, value, &a.SEOTitle)
	case "seo_description":
		return setString(field, value, &a.SEODescription)
	case "featured_image_url":
		return setString(field, value, &a.FeaturedImageURL)
	case "status":
		return setString(field, value, &a.Status)
	case "wordpress_url":
		return setString(field, value, &a.WordpressURL)
	case "wordpress_post_id":
		// JSON numbers arrive as float64.
		n, ok := value.(float64)
		if !ok {
			return fmt.Errorf("field %q must be a number", field)
		}
		id := int64(n)
		a.WordpressPostID = &id
		return nil
	case "publish_attempts":
		n, ok := value.(float64)
		if !ok {
			return fmt.Errorf("field %q must be a number", field)
		}
		a.PublishAttempts = int(n)
		return nil
	case "published_at":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q must be an RFC3339 string", field)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
		a.PublishedAt = &t
		return nil
	case "tags":
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("field %q must be a string array", field)
		}
		tags := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("field %q must be a string array", field)
			}
			tags = append(tags, s)
		}
		a.Tags = tags
		return nil
	default:
		return fmt.Errorf("unknown field %q", field)
	}
}

func setString(field string, value any, dst *string) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q must be a string", field)
	}
	*dst = s
	return nil
}

func cloneSummary(s *domain.StorySummary) *domain.StorySummary {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

func cloneArticle(a *domain.PublishedArticle) *domain.PublishedArticle {
	if a == nil {
		return nil
	}
	out := *a
	return &out
}
