package optim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kitesim/internal/config"
	"github.com/san-kum/kitesim/internal/experiment"
	"github.com/san-kum/kitesim/internal/params"
)

func build(overrides map[string]float64) (*experiment.Experiment, error) {
	cfg := config.DefaultConfig()
	cfg.Duration = 1
	for k, v := range overrides {
		cfg.SetParam(k, v)
	}
	return experiment.New(cfg, nil)
}

func TestGridSearchMaximize(t *testing.T) {
	g := NewGridSearch([]string{params.TrueWindSpeed}, [][]float64{{5, 15, 10}}).Maximize()

	best, val, err := g.Search(context.Background(), build, "mean_traction")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{params.TrueWindSpeed: 15}, best)
	assert.Greater(t, val, 0.0)
}

func TestGridSearchMinimize(t *testing.T) {
	g := NewGridSearch([]string{params.TrueWindSpeed}, [][]float64{{10, 5, 15}})

	best, _, err := g.Search(context.Background(), build, "mean_traction")
	require.NoError(t, err)
	assert.Equal(t, 5.0, best[params.TrueWindSpeed])
}

func TestGridSearchSkipsFailures(t *testing.T) {
	// No wind at rest is degenerate on the first step.
	g := NewGridSearch([]string{params.TrueWindSpeed}, [][]float64{{0}}).Maximize()

	_, _, err := g.Search(context.Background(), build, "mean_traction")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{params.TrueWindSpeed}, [][]float64{{5, 10}})
	_, _, err := g.Search(ctx, build, "mean_traction")
	assert.ErrorIs(t, err, context.Canceled)
}
