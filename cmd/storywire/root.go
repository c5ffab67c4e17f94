package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storywire/config"
	"storywire/dataservice"
	"storywire/domain"
	"storywire/envelope"
	"storywire/invoker"
	"storywire/middleware"
	"storywire/router"
	"storywire/store"
	"storywire/substrate"
	"storywire/target"
)

type rootOptions struct {
	configPath string
	seed       bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "storywire",
		Short: "Invoke cross-service operations over an in-process substrate",
		Long: `storywire runs the data-service target on a local in-process
substrate and dispatches typed operations against it, exercising the same
envelope, dispatch, and interpretation path production callers use.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.seed, "seed", false, "preload sample posts and a summary")

	cmd.AddCommand(newInvokeCommand(opts))
	cmd.AddCommand(newHealthCommand(opts))
	cmd.AddCommand(newRoutesCommand())

	return cmd
}

// stack is the locally wired system: store, target, substrate, client.
type stack struct {
	client *dataservice.Client
	log    *zap.Logger
}

// buildStack wires the whole system in-process: memory store (optionally
// redis-cached), data-service target mounted on a router, local substrate,
// shared invocation client, typed adapters.
func buildStack(opts *rootOptions) (*stack, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	var st store.Store = store.NewMemory()
	if cfg.RedisAddr != "" {
		st = store.NewCached(st, cfg.RedisAddr, cfg.CacheTTL, log.Named("cache"))
	}

	r := router.New(log.Named("router"))
	r.Use(middleware.Logging(log.Named("dataservice")))
	r.Use(middleware.Timeout(cfg.InvokeTimeout))
	target.NewDataService(st, log.Named("dataservice")).Mount(r)

	sub := substrate.NewLocal()
	sub.Register(cfg.DataServiceTarget, r.Serve)

	inv := invoker.New(sub,
		invoker.WithTimeout(cfg.InvokeTimeout),
		invoker.WithLogger(log.Named("invoker")))
	client := dataservice.New(inv,
		dataservice.WithTarget(cfg.DataServiceTarget),
		dataservice.WithLogger(log.Named("client")),
		dataservice.WithReadRetries(cfg.ReadRetries),
		dataservice.WithBuilder(envelope.NewBuilder(cfg.UserAgent, envelope.WithStage(cfg.Stage))))

	s := &stack{client: client, log: log}
	if opts.seed {
		if err := s.seed(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// seed loads a couple of posts and one summary so read operations have
// something to answer with.
func (s *stack) seed() error {
	ctx, cancel := contextWithTimeout()
	defer cancel()

	now := time.Now().UTC()
	posts := []domain.FilteredPost{
		{
			Source:          "reddit",
			Subreddit:       "programming",
			Title:           "A tour of hand-rolled RPC",
			URL:             "https://reddit.com/r/programming/1",
			Author:          "sample_user",
			Score:           120,
			Comments:        40,
			CreatedAt:       now.Add(-2 * time.Hour),
			NormalizedScore: 140,
			PostText:        "Sample post body.",
		},
		{
			Source:          "reddit",
			Subreddit:       "science",
			Title:           "Sample science story",
			URL:             "https://reddit.com/r/science/2",
			Author:          "sample_user",
			Score:           80,
			Comments:        10,
			CreatedAt:       now.Add(-1 * time.Hour),
			NormalizedScore: 85,
			PostText:        "Another sample body.",
		},
	}
	if err := s.client.SaveFilteredPosts(ctx, posts); err != nil {
		return err
	}
	_, err := s.client.CreateStorySummary(ctx, domain.StorySummaryCreate{
		PostID:         1,
		Title:          "A tour of hand-rolled RPC",
		Summary:        "Short overview.",
		GeneratedStory: "Long generated story.",
		ModelUsed:      "sample-model",
	})
	return err
}

func contextWithTimeout() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Minute)
}
