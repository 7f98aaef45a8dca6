package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/params"
)

func TestSweep(t *testing.T) {
	model := kite.NewModel(nil, nil)
	s := New(model, nil, nil)

	values := []float64{10, 15, 20, 0}
	variants, err := s.Sweep(context.Background(), kite.DefaultState(), kite.DefaultInput(), Config{Dt: 0.05, Duration: 0.5}, SweepConfig{
		Param:   params.TrueWindSpeed,
		Values:  values,
		Metrics: func() []Metric { return []Metric{&countMetric{}} },
		Workers: 2,
	})
	require.NoError(t, err)
	require.Len(t, variants, len(values))

	for i, v := range variants {
		assert.Equal(t, values[i], v.Value)
		assert.Equal(t, params.TrueWindSpeed, v.Param)
	}

	// stronger wind, stronger pull on the first step
	assert.Less(t, variants[0].Result.Outputs[0].Traction, variants[1].Result.Outputs[0].Traction)
	assert.Less(t, variants[1].Result.Outputs[0].Traction, variants[2].Result.Outputs[0].Traction)
	assert.Equal(t, 10.0, variants[1].Result.Metrics["count"])

	assert.ErrorIs(t, variants[3].Err, kite.ErrDegenerateState)

	// the base model is untouched
	assert.Equal(t, 15.0, model.Disturbance().Value(params.TrueWindSpeed))
}

func TestSweepUnknownParam(t *testing.T) {
	s := New(kite.NewModel(nil, nil), nil, nil)
	_, err := s.Sweep(context.Background(), kite.DefaultState(), kite.DefaultInput(), Config{Dt: 0.1, Duration: 1}, SweepConfig{
		Param:  "nope",
		Values: []float64{1},
	})
	assert.ErrorIs(t, err, params.ErrUnknownParam)
}
