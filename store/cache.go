package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storywire/domain"
)

// Cached wraps a Store with a redis read-through cache on RecentPosts.
// Entries expire by TTL only, so a freshly saved batch can be invisible to
// the list query for up to one TTL.
type Cached struct {
	Store
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCached fronts next with a cache on the redis instance at addr.
func NewCached(next Store, addr string, ttl time.Duration, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{
		Store:  next,
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		log:    log,
	}
}

func recentPostsKey(limit int, subreddit string) string {
	return fmt.Sprintf("posts:recent:%s:%d", subreddit, limit)
}

// RecentPosts serves from cache when possible. Cache failures degrade to
// the underlying store; they never fail the read.
func (c *Cached) RecentPosts(ctx context.Context, limit int, subreddit string) ([]domain.FilteredPost, error) {
	key := recentPostsKey(limit, subreddit)
	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var posts []domain.FilteredPost
		if err := json.Unmarshal([]byte(raw), &posts); err == nil {
			return posts, nil
		}
		c.log.Warn("cache entry unreadable, evicting", zap.String("key", key))
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	posts, err := c.Store.RecentPosts(ctx, limit, subreddit)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(posts); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return posts, nil
}

// Close releases the redis connection.
func (c *Cached) Close() error {
	return c.client.Close()
}
