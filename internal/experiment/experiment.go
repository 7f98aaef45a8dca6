package experiment

import (
	"context"

	"go.uber.org/zap"

	"github.com/san-kum/kitesim/internal/config"
	"github.com/san-kum/kitesim/internal/control"
	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/metrics"
	"github.com/san-kum/kitesim/internal/sim"
	"github.com/san-kum/kitesim/internal/storage"
)

// Experiment is one configured run: the kite model, its controller and the
// standard metric set, built from a validated config.
type Experiment struct {
	cfg       *config.Config
	model     *kite.Model
	simulator *sim.Simulator
}

// New validates cfg and wires up a simulator for it. The config is copied.
func New(cfg *config.Config, logger *zap.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := cfg.Model()
	if err != nil {
		return nil, err
	}

	s := sim.New(model, cfg.Controller(), logger)
	for _, m := range metrics.Standard(model.Params()) {
		s.AddMetric(m)
	}
	return &Experiment{cfg: cfg.Clone(), model: model, simulator: s}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.cfg.InitialState(), e.cfg.Input(), e.cfg.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Metadata describes a finished run for storage. runErr is recorded when the
// run stopped early.
func (e *Experiment) Metadata(runErr error) storage.RunMetadata {
	ctrl := "hold"
	if _, ok := e.cfg.Controller().(*control.Schedule); ok {
		ctrl = "schedule"
	}
	boat := e.cfg.BoatModel
	if boat == "" {
		boat = config.BoatHold
	}

	meta := storage.RunMetadata{
		Preset:     e.cfg.Preset,
		Seed:       e.cfg.Seed,
		Dt:         e.cfg.Dt,
		Duration:   e.cfg.Duration,
		Controller: ctrl,
		BoatModel:  boat,
		Params:     e.model.GetParams(),
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return meta
}
