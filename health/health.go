// Package health composes individual target probes into a single
// healthy/unhealthy answer for a service's health endpoint.
package health

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Probe is one named dependency check. Check returns nil when the
// dependency is reachable and answering.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Report is the aggregated result. Components maps probe name to "ok" or
// the failure text.
type Report struct {
	Healthy    bool              `json:"healthy"`
	Components map[string]string `json:"components"`
}

// Aggregator runs probes concurrently and folds their results.
type Aggregator struct {
	probes  []Probe
	timeout time.Duration
	log     *zap.Logger
}

// NewAggregator creates an aggregator with a per-run timeout covering all
// probes together.
func NewAggregator(timeout time.Duration, log *zap.Logger, probes ...Probe) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{probes: probes, timeout: timeout, log: log}
}

// Run executes every probe and reports. A single failing probe marks the
// whole report unhealthy; the other probes still run to completion so the
// report names every broken dependency, not just the first.
func (a *Aggregator) Run(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make([]error, len(a.probes))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range a.probes {
		i, p := i, p
		g.Go(func() error {
			results[i] = p.Check(ctx)
			// Always nil: a probe failure is a result, not a reason to
			// cancel the sibling probes.
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Healthy: true, Components: make(map[string]string, len(a.probes))}
	for i, p := range a.probes {
		if err := results[i]; err != nil {
			report.Healthy = false
			report.Components[p.Name] = err.Error()
			a.log.Warn("probe failed", zap.String("probe", p.Name), zap.Error(err))
		} else {
			report.Components[p.Name] = "ok"
		}
	}
	return report
}
