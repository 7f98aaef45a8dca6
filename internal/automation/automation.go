package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/kitesim/internal/config"
	"github.com/san-kum/kitesim/internal/experiment"
	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/sim"
	"github.com/san-kum/kitesim/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one preset with optional overrides. Zero Dt or Duration
// keeps the preset's value; nil Controls keeps the preset's controls.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Params   map[string]float64 `yaml:"params"`
	Controls *kite.Command      `yaml:"controls"`
	SaveAs   string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Config resolves the step into a full run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	for k, v := range s.Params {
		cfg.SetParam(k, v)
	}
	if s.Controls != nil {
		cfg.Controls = *s.Controls
	}
	return cfg, nil
}

// RunScenario executes all steps in order. Steps with SaveAs are written to
// store, which may be nil when nothing is saved. A failed step ends the
// scenario; the results gathered so far are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, logger *zap.Logger) ([]*sim.Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]*sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("preset", step.Preset))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, runErr := exp.Run(ctx)
		if result != nil {
			results = append(results, result)
		}

		if step.SaveAs != "" && store != nil && result != nil {
			meta := exp.Metadata(runErr)
			meta.Preset = step.SaveAs
			if _, err := store.Save(meta, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		if runErr != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, runErr)
		}
	}

	return results, nil
}

// MonteCarloConfig perturbs the start-up tether angles of Base.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64 // degrees, uniform in [-p, p] on theta and phi
	NumTrials    int
	Seed         int64
}

// MonteCarloResult is one perturbed run.
type MonteCarloResult struct {
	TrialID      int
	ThetaDeg     float64
	PhiDeg       float64
	StepsTaken   int
	MeanTraction float64
	Completed    bool // false when the run stopped on a degenerate step
}

// RunMonteCarlo executes trials with randomly perturbed start angles. Theta
// stays inside its clamp range. A zero Seed falls back to Base.Seed, then to
// the clock.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *zap.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := cfg.Base
	if base == nil {
		base = config.DefaultConfig()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = base.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := base.Clone()
		run.InitState.ThetaDeg += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		run.InitState.ThetaDeg = min(max(run.InitState.ThetaDeg, kite.ThetaMinDeg), kite.ThetaMaxDeg)
		run.InitState.PhiDeg += (rng.Float64() - 0.5) * 2 * cfg.Perturbation

		exp, err := experiment.New(run, nil)
		if err != nil {
			return results, err
		}

		result, err := exp.Run(ctx)
		if err != nil && !errors.Is(err, kite.ErrDegenerateState) {
			return results, err
		}

		results = append(results, MonteCarloResult{
			TrialID:      trial,
			ThetaDeg:     run.InitState.ThetaDeg,
			PhiDeg:       run.InitState.PhiDeg,
			StepsTaken:   result.StepsTaken,
			MeanTraction: result.Metrics["mean_traction"],
			Completed:    err == nil,
		})

		if (trial+1)%10 == 0 {
			logger.Info("monte carlo progress", zap.Int("done", trial+1), zap.Int("trials", cfg.NumTrials))
		}
	}

	return results, nil
}

// MonteCarloStats counts completed and degenerate trials.
func MonteCarloStats(results []MonteCarloResult) (completed int, degenerate int) {
	for _, r := range results {
		if r.Completed {
			completed++
		} else {
			degenerate++
		}
	}
	return
}
