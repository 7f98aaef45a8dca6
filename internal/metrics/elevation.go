package metrics

import (
	"github.com/san-kum/kitesim/internal/geom"
	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/sim"
)

// ElevationBoundHits is the fraction of steps that start with theta pinned
// at the ground or zenith clamp.
type ElevationBoundHits struct {
	hits    int
	samples int
}

func NewElevationBoundHits() *ElevationBoundHits { return &ElevationBoundHits{} }

func (e *ElevationBoundHits) Name() string { return "elevation_bound_hits" }

func (e *ElevationBoundHits) Observe(s sim.Sample) {
	e.samples++
	th := s.State.Theta
	if th <= geom.Radians(kite.ThetaMinDeg) || th >= geom.Radians(kite.ThetaMaxDeg) {
		e.hits++
	}
}

func (e *ElevationBoundHits) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return float64(e.hits) / float64(e.samples)
}

func (e *ElevationBoundHits) Reset() {
	e.hits = 0
	e.samples = 0
}
