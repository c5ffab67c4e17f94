package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"storywire/domain"
	"storywire/route"
)

type invokeOptions struct {
	*rootOptions
	args string
}

func newInvokeCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &invokeOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <operation>",
		Short: "Invoke one operation against the local stack",
		Long: `Invoke one operation by name, e.g.:

  storywire --seed invoke list_recent_posts --args '{"limit":5}'
  storywire --seed invoke get_story_summary_by_post_id --args '{"post_id":1}'
  storywire invoke create_story_summary --args '{"post_id":7,"title":"t",...}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.args, "args", "{}", "operation arguments as JSON")

	return cmd
}

func runInvoke(cmd *cobra.Command, opts *invokeOptions, op string) error {
	if _, err := route.Lookup(op); err != nil {
		return fmt.Errorf("%w (known operations: %v)", err, route.Names())
	}

	s, err := buildStack(opts.rootOptions)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	ctx, cancel := contextWithTimeout()
	defer cancel()

	result, err := dispatch(ctx, s, op, []byte(opts.args))
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

func dispatch(ctx context.Context, s *stack, op string, rawArgs []byte) (any, error) {
	switch op {
	case route.SaveFilteredPosts:
		var args struct {
			Posts []domain.FilteredPost `json:"posts"`
		}
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return nil, fmt.Errorf("invalid --args JSON: %w", err)
		}
		if err := s.client.SaveFilteredPosts(ctx, args.Posts); err != nil {
			return nil, err
		}
		return map[string]any{"saved": len(args.Posts)}, nil

	case route.ListRecentPosts:
		args := struct {
			Limit     int    `json:"limit"`
			Subreddit string `json:"subreddit"`
		}{Limit: 10}
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return nil, fmt.Errorf("invalid --args JSON: %w", err)
		}
		return s.client.ListRecentPosts(ctx, args.Limit, args.Subreddit)

	case route.CreateStorySummary:
		var in domain.StorySummaryCreate
		if err := json.Unmarshal(rawArgs, &in); err != nil {
			return nil, fmt.Errorf("invalid --args JSON: %w", err)
		}
		return s.client.CreateStorySummary(ctx, in)

	case route.GetStorySummaryByID:
		var args struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return nil, fmt.Errorf("invalid --args JSON: %w", err)
		}
		return s.client.StorySummaryByID(ctx, args.ID)

	case route.GetStorySummaryByPostID:
		var args struct {
			PostID int64 `json:"post_id"`
		}
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return nil, fmt.Errorf("invalid --args JSON: %w", err)
		}
		return s.client.StorySummaryByPostID(ctx, args.PostID)

	case route.CreatePublishedArticle:
		var in domain.PublishedArticleCreate
		if err := json.Unmarshal(rawArgs, &in); err != nil {
			return nil, fmt.Errorf("invalid --args JSON: %w", err)
		}
		return s.client.CreatePublishedArticle(ctx, in)

	case route.UpdatePublishedArticle:
		var args struct {
			ID      int64                         `json:"id"`
			Updates domain.PublishedArticleUpdate `json:"updates"`
		}
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return nil, fmt.Errorf("invalid --args JSON: %w", err)
		}
		return s.client.UpdatePublishedArticle(ctx, args.ID, args.Updates)

	case route.HealthProbe:
		if err := s.client.Health(ctx); err != nil {
			return nil, err
		}
		return map[string]string{"status": "healthy"}, nil

	default:
		return nil, fmt.Errorf("route: unhandled operation %q", op)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	if v == nil {
		cmd.Println("null")
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
