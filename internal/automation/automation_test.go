package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kitesim/internal/config"
	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/params"
	"github.com/san-kum/kitesim/internal/storage"
)

const scenarioYAML = `
name: session
description: light air then a gust
steps:
  - preset: calm
    duration: 0.5
  - preset: default
    duration: 0.5
    dt: 0.05
    params:
      TWS: 20
      A_k: 12
    controls:
      delta: 0.1
    save_as: gust
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "session", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.Nil(t, sc.Steps[0].Controls)
	assert.Equal(t, &kite.Command{Delta: 0.1}, sc.Steps[1].Controls)
	assert.Equal(t, "gust", sc.Steps[1].SaveAs)
}

func TestStepConfig(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	cfg, err := sc.Steps[1].Config()
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Dt)
	assert.Equal(t, 20.0, cfg.Disturbance.TWS)
	assert.Equal(t, 12.0, cfg.Params[params.KiteArea])
	assert.Equal(t, 0.1, cfg.Controls.Delta)

	_, err = ScenarioStep{Preset: "nope"}.Config()
	assert.Error(t, err)
}

func TestRunScenarioSavesNamedSteps(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	store := storage.New(t.TempDir(), nil)
	require.NoError(t, store.Init())

	results, err := RunScenario(context.Background(), sc, store, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 25, results[0].StepsTaken)
	assert.Equal(t, 10, results[1].StepsTaken)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "gust", runs[0].Preset)
	assert.Equal(t, 12.0, runs[0].Params[params.KiteArea])
}

func TestRunScenarioStopsOnDegenerateStep(t *testing.T) {
	sc := &Scenario{Name: "still", Steps: []ScenarioStep{
		{Preset: "default", Duration: 0.5, Params: map[string]float64{params.TrueWindSpeed: 0}},
		{Preset: "default", Duration: 0.5},
	}}

	results, err := RunScenario(context.Background(), sc, nil, nil)
	assert.ErrorIs(t, err, kite.ErrDegenerateState)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].StepsTaken)
}

func TestMonteCarloIsSeeded(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 0.2
	mc := &MonteCarloConfig{Base: base, Perturbation: 10, NumTrials: 5, Seed: 7}

	a, err := RunMonteCarlo(context.Background(), mc, nil)
	require.NoError(t, err)
	b, err := RunMonteCarlo(context.Background(), mc, nil)
	require.NoError(t, err)

	require.Len(t, a, 5)
	assert.Equal(t, a, b)
	for _, r := range a {
		assert.GreaterOrEqual(t, r.ThetaDeg, 35.0)
		assert.LessOrEqual(t, r.ThetaDeg, 55.0)
		assert.InDelta(t, -40, r.PhiDeg, 10)
	}

	completed, degenerate := MonteCarloStats(a)
	assert.Equal(t, 5, completed+degenerate)
}

func TestMonteCarloStats(t *testing.T) {
	completed, degenerate := MonteCarloStats([]MonteCarloResult{
		{Completed: true}, {Completed: false}, {Completed: true},
	})
	assert.Equal(t, 2, completed)
	assert.Equal(t, 1, degenerate)
}
