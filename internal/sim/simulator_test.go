package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/params"
)

type constController struct{ u kite.Command }

func (c constController) Compute(x kite.State, t float64) kite.Command { return c.u }

type countMetric struct {
	count int
	sum   float64
}

func (m *countMetric) Name() string { return "count" }
func (m *countMetric) Observe(s Sample) {
	m.count++
	m.sum += s.Output.Traction
}
func (m *countMetric) Value() float64 { return float64(m.count) }
func (m *countMetric) Reset()         { m.count, m.sum = 0, 0 }

type recorder struct{ times []float64 }

func (r *recorder) OnStep(s Sample) { r.times = append(r.times, s.Time) }

func TestSimulatorRun(t *testing.T) {
	s := New(kite.NewModel(nil, nil), nil, nil)

	result, err := s.Run(context.Background(), kite.DefaultState(), kite.DefaultInput(), Config{Dt: 0.1, Duration: 1.0})
	require.NoError(t, err)

	assert.Len(t, result.States, 11)
	assert.Len(t, result.Times, 11)
	assert.Len(t, result.Outputs, 10)
	assert.Len(t, result.Commands, 10)
	assert.Equal(t, 10, result.StepsTaken)
	assert.InDelta(t, 1.0, result.Times[10], 1e-12)
	assert.Equal(t, kite.DefaultState(), result.States[0])
}

func TestSimulatorMatchesDirectStepping(t *testing.T) {
	model := kite.NewModel(nil, nil)
	in := kite.DefaultInput()

	result, err := New(model, nil, nil).Run(context.Background(), kite.DefaultState(), in, Config{Dt: 0.05, Duration: 0.25})
	require.NoError(t, err)

	x := kite.DefaultState()
	for i := 0; i < 5; i++ {
		next, out, err := model.Step(x, in, 0.05)
		require.NoError(t, err)
		assert.Equal(t, out, result.Outputs[i])
		x = next
	}
	assert.Equal(t, x, result.States[5])
}

func TestSimulatorAppliesController(t *testing.T) {
	u := kite.Command{Delta: 0.2, BoatHeadingSpeed: 1}
	s := New(kite.NewModel(nil, nil), constController{u}, nil)

	result, err := s.Run(context.Background(), kite.DefaultState(), kite.DefaultInput(), Config{Dt: 0.1, Duration: 0.3})
	require.NoError(t, err)

	for _, c := range result.Commands {
		assert.Equal(t, u, c)
	}
	assert.InDelta(t, 0.3, result.States[3].BoatHeading, 1e-12)
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(kite.NewModel(nil, nil), nil, nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), kite.DefaultState(), kite.DefaultInput(), tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s := New(kite.NewModel(nil, nil), nil, nil)
	metric := &countMetric{}
	rec := &recorder{}
	s.AddMetric(metric)
	s.AddObserver(rec)

	result, err := s.Run(context.Background(), kite.DefaultState(), kite.DefaultInput(), Config{Dt: 0.1, Duration: 1.0})
	require.NoError(t, err)

	assert.Equal(t, 10.0, result.Metrics["count"])
	assert.Equal(t, 10, metric.count)
	assert.Len(t, rec.times, 10)
	assert.Equal(t, 0.0, rec.times[0])
}

func TestSimulatorDegenerateStops(t *testing.T) {
	d := params.DefaultDisturbance()
	require.NoError(t, d.Set(params.TrueWindSpeed, 0))

	core, logs := observer.New(zapcore.WarnLevel)
	s := New(kite.NewModel(nil, d), nil, zap.New(core))

	result, err := s.Run(context.Background(), kite.DefaultState(), kite.DefaultInput(), Config{Dt: 0.1, Duration: 1.0})
	require.Error(t, err)
	assert.ErrorIs(t, err, kite.ErrDegenerateState)

	var se *SimulationError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Step)
	assert.Equal(t, 0, result.StepsTaken)
	assert.Len(t, result.States, 1)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "degenerate step", entry.Message)
	assert.Equal(t, "airflow_direction", entry.ContextMap()["quantity"])
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(kite.NewModel(nil, nil), nil, nil)
	result, err := s.Run(ctx, kite.DefaultState(), kite.DefaultInput(), Config{Dt: 0.1, Duration: 1.0})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.StepsTaken)
}

func TestRunWithCallbackStops(t *testing.T) {
	s := New(kite.NewModel(nil, nil), nil, nil)

	var seen []int
	err := s.RunWithCallback(context.Background(), kite.DefaultState(), kite.DefaultInput(), Config{Dt: 0.1, Duration: 1.0}, func(smp Sample) bool {
		seen = append(seen, smp.Step)
		return len(seen) < 3
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestResultColumn(t *testing.T) {
	s := New(kite.NewModel(nil, nil), nil, nil)
	result, err := s.Run(context.Background(), kite.DefaultState(), kite.DefaultInput(), Config{Dt: 0.1, Duration: 0.5})
	require.NoError(t, err)

	theta, ok := result.Column("theta")
	require.True(t, ok)
	assert.Len(t, theta, 5)
	assert.Equal(t, result.States[2].Theta, theta[2])

	traction, ok := result.Column("traction")
	require.True(t, ok)
	assert.Equal(t, result.Outputs[0].Traction, traction[0])

	_, ok = result.Column("bogus")
	assert.False(t, ok)

	assert.Len(t, result.Sample(0).Row(), len(Columns()))
}
