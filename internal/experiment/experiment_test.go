package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kitesim/internal/config"
	"github.com/san-kum/kitesim/internal/params"
	"github.com/san-kum/kitesim/internal/sim"
)

func TestRunFillsStandardMetrics(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 1

	exp, err := New(cfg, nil)
	require.NoError(t, err)

	res, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, res.StepsTaken)
	assert.Greater(t, res.Metrics["mean_traction"], 0.0)
	assert.Contains(t, res.Metrics, "elevation_bound_hits")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0

	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
}

func TestConfigIsCopied(t *testing.T) {
	cfg := config.DefaultConfig()
	exp, err := New(cfg, nil)
	require.NoError(t, err)

	cfg.Duration = 99
	assert.Equal(t, config.DefaultDuration, exp.Config().Duration)
}

func TestMetadata(t *testing.T) {
	cfg := config.GetPreset("carving")
	cfg.SetParam(params.KiteArea, 12)

	exp, err := New(cfg, nil)
	require.NoError(t, err)

	meta := exp.Metadata(errors.New("stopped"))
	assert.Equal(t, "carving", meta.Preset)
	assert.Equal(t, "schedule", meta.Controller)
	assert.Equal(t, config.BoatHold, meta.BoatModel)
	assert.Equal(t, 12.0, meta.Params[params.KiteArea])
	assert.Equal(t, "stopped", meta.Error)

	assert.Equal(t, "hold", mustNew(t, config.DefaultConfig()).Metadata(nil).Controller)
}

func mustNew(t *testing.T, cfg *config.Config) *Experiment {
	t.Helper()
	exp, err := New(cfg, nil)
	require.NoError(t, err)
	return exp
}
