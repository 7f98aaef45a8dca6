package sim

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/kitesim/internal/kite"
)

// Variant is one point of a parameter sweep.
type Variant struct {
	Param  string
	Value  float64
	Result *Result
	Err    error
}

// SweepConfig describes a one-parameter sweep. Metrics, when set, is called
// once per variant so that stateful metrics are never shared.
type SweepConfig struct {
	Param   string
	Values  []float64
	Metrics func() []Metric
	Workers int
}

// Sweep runs one simulation per value in parallel, each on a cloned model
// with Param set to that value. A degenerate run is reported in its
// Variant.Err and does not stop the others; an unknown parameter or a
// cancelled context does.
func (s *Simulator) Sweep(ctx context.Context, x0 kite.State, in kite.Input, cfg Config, sc SweepConfig) ([]Variant, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	workers := sc.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]Variant, len(sc.Values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range sc.Values {
		g.Go(func() error {
			model := s.model.Clone()
			if err := model.SetParam(sc.Param, v); err != nil {
				return err
			}

			child := New(model, s.controller, s.logger.With(zap.Float64(sc.Param, v)))
			if sc.Metrics != nil {
				for _, m := range sc.Metrics() {
					child.AddMetric(m)
				}
			}

			res, err := child.Run(gctx, x0, in, cfg)
			if err != nil && gctx.Err() != nil {
				return err
			}
			out[i] = Variant{Param: sc.Param, Value: v, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
