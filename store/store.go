// Package store is the repository behind the data-service target: posts,
// story summaries, and published articles.
//
// The shipped implementation is in-memory; durable persistence lives in an
// external service and is out of scope here. An optional redis read-through
// cache fronts the recent-posts query.
package store

import (
	"context"

	"storywire/domain"
)

// Store is the data-service repository. Lookups for missing records return
// (nil, nil); errors are reserved for operational failures.
type Store interface {
	SavePosts(ctx context.Context, posts []domain.FilteredPost) (int, error)
	RecentPosts(ctx context.Context, limit int, subreddit string) ([]domain.FilteredPost, error)

	CreateSummary(ctx context.Context, in domain.StorySummaryCreate) (*domain.StorySummary, error)
	SummaryByID(ctx context.Context, id int64) (*domain.StorySummary, error)
	SummaryByPostID(ctx context.Context, postID int64) (*domain.StorySummary, error)

	CreateArticle(ctx context.Context, in domain.PublishedArticleCreate) (*domain.PublishedArticle, error)
	UpdateArticle(ctx context.Context, id int64, updates domain.PublishedArticleUpdate) (*domain.PublishedArticle, error)
}
