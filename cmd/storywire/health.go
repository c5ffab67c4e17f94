package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"storywire/health"
)

func newHealthCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe every target and report aggregate health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildStack(rootOpts)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			agg := health.NewAggregator(10*time.Second, s.log.Named("health"),
				health.Probe{Name: "data-service", Check: s.client.Health},
			)

			ctx, cancel := contextWithTimeout()
			defer cancel()

			report := agg.Run(ctx)
			if err := printJSON(cmd, report); err != nil {
				return err
			}
			if !report.Healthy {
				return errors.New("unhealthy")
			}
			return nil
		},
	}
}
