package metrics

import (
	"math"

	"github.com/san-kum/kitesim/internal/params"
	"github.com/san-kum/kitesim/internal/sim"
)

// Energy averages the kite's mechanical energy: kinetic energy of the tether
// end plus potential energy above the pivot.
type Energy struct {
	name        string
	mass        float64
	length      float64
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(mass, length, gravity float64) *Energy {
	return &Energy{
		name:    "kite_energy",
		mass:    mass,
		length:  length,
		gravity: gravity,
	}
}

// EnergyFromParams reads mass, tether length and gravity from a model registry.
func EnergyFromParams(r *params.Registry) *Energy {
	return NewEnergy(r.Value(params.KiteMass), r.Value(params.TetherLength), r.Value(params.Gravity))
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s sim.Sample) {
	v := s.Output.KiteSpeed
	ke := 0.5 * e.mass * v * v
	pe := e.mass * e.gravity * e.length * math.Sin(s.State.Theta)
	e.totalEnergy += ke + pe
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.samples = 0
	e.totalEnergy = 0
}

// Standard returns the default metric set for a model registry.
func Standard(r *params.Registry) []sim.Metric {
	return []sim.Metric{
		NewMeanTraction(),
		NewPeakTraction(),
		NewPeakKiteSpeed(),
		NewControlEffort(),
		NewElevationBoundHits(),
		EnergyFromParams(r),
	}
}
