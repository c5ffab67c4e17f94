package test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"storywire/dataservice"
	"storywire/domain"
	"storywire/invoker"
	"storywire/router"
	"storywire/store"
	"storywire/substrate"
	"storywire/target"
)

func setupBenchClient(b *testing.B) *dataservice.Client {
	log := zap.NewNop()
	r := router.New(log)
	target.NewDataService(store.NewMemory(), log).Mount(r)

	sub := substrate.NewLocal()
	sub.Register(dataservice.DefaultTarget, r.Serve)
	c := dataservice.New(invoker.New(sub), dataservice.WithReadRetries(0))

	posts := []domain.FilteredPost{{
		Source:          "reddit",
		Subreddit:       "programming",
		Title:           "bench",
		URL:             "https://reddit.com/r/programming/bench",
		Author:          "author",
		Score:           100,
		Comments:        10,
		CreatedAt:       time.Now().UTC(),
		NormalizedScore: 105,
	}}
	if err := c.SaveFilteredPosts(context.Background(), posts); err != nil {
		b.Fatal(err)
	}
	return c
}

// BenchmarkListRecentPosts measures one full round trip: envelope build,
// dispatch, route match, store read, double decode.
func BenchmarkListRecentPosts(b *testing.B) {
	c := setupBenchClient(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.ListRecentPosts(ctx, 10, ""); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkHealthProbe measures the cheapest round trip, no store access.
func BenchmarkHealthProbe(b *testing.B) {
	c := setupBenchClient(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Health(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkListRecentPostsParallel exercises concurrent callers sharing one
// client, the production usage pattern.
func BenchmarkListRecentPostsParallel(b *testing.B) {
	c := setupBenchClient(b)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := c.ListRecentPosts(ctx, 10, ""); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
