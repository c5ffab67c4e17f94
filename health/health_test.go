package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(name string, err error) Probe {
	return Probe{Name: name, Check: func(context.Context) error { return err }}
}

func TestAllProbesHealthy(t *testing.T) {
	agg := NewAggregator(time.Second, nil,
		probe("data-service", nil),
		probe("cache", nil),
	)
	report := agg.Run(context.Background())
	assert.True(t, report.Healthy)
	assert.Equal(t, map[string]string{"data-service": "ok", "cache": "ok"}, report.Components)
}

func TestOneFailingProbe(t *testing.T) {
	agg := NewAggregator(time.Second, nil,
		probe("data-service", nil),
		probe("cache", errors.New("dial tcp: connection refused")),
	)
	report := agg.Run(context.Background())
	assert.False(t, report.Healthy)
	assert.Equal(t, "ok", report.Components["data-service"])
	assert.Equal(t, "dial tcp: connection refused", report.Components["cache"])
}

func TestFailingProbeDoesNotCancelSiblings(t *testing.T) {
	slow := Probe{Name: "slow", Check: func(ctx context.Context) error {
		select {
		case <-time.After(20 * time.Millisecond):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}}
	agg := NewAggregator(time.Second, nil, probe("broken", errors.New("down")), slow)
	report := agg.Run(context.Background())
	assert.False(t, report.Healthy)
	assert.Equal(t, "ok", report.Components["slow"])
}

func TestProbeTimeout(t *testing.T) {
	stuck := Probe{Name: "stuck", Check: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	agg := NewAggregator(20*time.Millisecond, nil, stuck)
	report := agg.Run(context.Background())
	require.False(t, report.Healthy)
	assert.Equal(t, context.DeadlineExceeded.Error(), report.Components["stuck"])
}

func TestNoProbes(t *testing.T) {
	report := NewAggregator(time.Second, nil).Run(context.Background())
	assert.True(t, report.Healthy)
	assert.Empty(t, report.Components)
}
