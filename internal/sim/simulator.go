package sim

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/kitesim/internal/kite"
)

type Simulator struct {
	model      *kite.Model
	controller Controller
	logger     *zap.Logger
	metrics    []Metric
	observers  []Observer
}

// New builds a simulator. A nil controller leaves the input values as given;
// a nil logger discards output.
func New(model *kite.Model, controller Controller, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		model:      model,
		controller: controller,
		logger:     logger,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Model() *kite.Model { return s.model }

// Run steps the model from x0 for cfg.Duration. On a degenerate step it
// stops and returns the steps recorded so far with a *SimulationError.
func (s *Simulator) Run(ctx context.Context, x0 kite.State, in kite.Input, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		States:   make([]kite.State, 0, steps+1),
		Outputs:  make([]kite.Output, 0, steps),
		Commands: make([]kite.Command, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0
	t := 0.0
	result.States = append(result.States, x)
	result.Times = append(result.Times, t)

	s.logger.Debug("run started",
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration),
		zap.Int("steps", steps))

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		next, smp, err := s.step(i, x, in, t, cfg.Dt)
		if err != nil {
			runErr = err
			break
		}

		for _, m := range s.metrics {
			m.Observe(smp)
		}
		for _, obs := range s.observers {
			obs.OnStep(smp)
		}

		x = next
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++

		result.Outputs = append(result.Outputs, smp.Output)
		result.Commands = append(result.Commands, smp.Command)
		result.States = append(result.States, x)
		result.Times = append(result.Times, t)
	}

	s.collect(result)
	s.logger.Debug("run finished", zap.Int("steps_taken", result.StepsTaken))
	return result, runErr
}

// RunWithCallback streams samples to callback until Duration elapses, the
// callback returns false or ctx is done. It records nothing.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 kite.State, in kite.Input, cfg Config, callback func(Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	x := x0
	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		next, smp, err := s.step(i, x, in, t, cfg.Dt)
		if err != nil {
			return err
		}
		for _, obs := range s.observers {
			obs.OnStep(smp)
		}
		if !callback(smp) {
			return nil
		}
		x = next
	}
	return nil
}

func (s *Simulator) step(i int, x kite.State, in kite.Input, t, dt float64) (kite.State, Sample, error) {
	if s.controller != nil {
		in = in.With(s.controller.Compute(x, t))
	}

	next, out, err := s.model.Step(x, in, dt)
	if err != nil {
		var de *kite.DegenerateStateError
		if errors.As(err, &de) {
			s.logger.Warn("degenerate step",
				zap.Int("step", i),
				zap.Float64("time", t),
				zap.String("quantity", de.Quantity),
				zap.Float64("value", de.Value))
		}
		return x, Sample{}, &SimulationError{Step: i, Time: t, State: x, Wrapped: err}
	}

	return next, Sample{Step: i, Time: t, State: x, Command: in.Command(), Output: out}, nil
}

func (s *Simulator) collect(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}
