package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultModelKeys(t *testing.T) {
	r := DefaultModel()

	want := []string{
		TetherLength, KiteArea, LiftCoef, DragCoef, TransCoef, KiteMass, TurnRateGain,
		MassEffect, AirDensity, Gravity, TrimGain, BaseIncidence, FoilCoef, BoatMass, WaterFriction,
	}
	assert.Equal(t, want, r.Keys())
	assert.Equal(t, 50.0, r.Value(TetherLength))
	assert.InDelta(t, 0.5235987755982988, r.Value(BaseIncidence), 1e-15)
}

func TestDefaultDisturbance(t *testing.T) {
	r := DefaultDisturbance()
	assert.Equal(t, []string{TrueWindSpeed, TrueWindAngle}, r.Keys())
	assert.Equal(t, 15.0, r.Value(TrueWindSpeed))
	assert.Equal(t, 40.0, r.Value(TrueWindAngle))
}

func TestSetUnknown(t *testing.T) {
	r := DefaultModel()
	err := r.Set("nope", 1)
	require.ErrorIs(t, err, ErrUnknownParam)

	_, err = r.Nudge("nope", 1)
	require.ErrorIs(t, err, ErrUnknownParam)
}

func TestSetIgnoresBounds(t *testing.T) {
	r := DefaultDisturbance()
	require.NoError(t, r.Set(TrueWindSpeed, 500))

	s, ok := r.Get(TrueWindSpeed)
	require.True(t, ok)
	assert.Equal(t, 500.0, s.Value)
	assert.False(t, s.InBounds())
}

func TestNudgeClamps(t *testing.T) {
	r := DefaultDisturbance()

	v, err := r.Nudge(TrueWindAngle, 3)
	require.NoError(t, err)
	assert.Equal(t, 46.0, v)

	v, err = r.Nudge(TrueWindAngle, 1000)
	require.NoError(t, err)
	assert.Equal(t, 180.0, v)

	v, err = r.Nudge(TrueWindAngle, -1000)
	require.NoError(t, err)
	assert.Equal(t, -180.0, v)
}

func TestCloneIsIndependent(t *testing.T) {
	r := DefaultModel()
	c := r.Clone()

	require.NoError(t, c.Set(KiteMass, 9))
	assert.Equal(t, 4.0, r.Value(KiteMass))
	assert.Equal(t, 9.0, c.Value(KiteMass))
	assert.Equal(t, r.Keys(), c.Keys())
}

func TestApply(t *testing.T) {
	r := DefaultModel()
	require.NoError(t, r.Apply(map[string]float64{TetherLength: 30, KiteArea: 9}))
	assert.Equal(t, 30.0, r.Value(TetherLength))
	assert.Equal(t, 9.0, r.Value(KiteArea))

	assert.ErrorIs(t, r.Apply(map[string]float64{"bogus": 1}), ErrUnknownParam)
}

func TestValuesSnapshot(t *testing.T) {
	r := DefaultDisturbance()
	v := r.Values()
	v[TrueWindSpeed] = 99
	assert.Equal(t, 15.0, r.Value(TrueWindSpeed))
	assert.Len(t, v, 2)
}
