package metrics

import (
	"math"

	"github.com/san-kum/kitesim/internal/sim"
)

// MeanTraction averages the aerodynamic force magnitude in newtons.
type MeanTraction struct {
	sum     float64
	samples int
}

func NewMeanTraction() *MeanTraction { return &MeanTraction{} }

func (m *MeanTraction) Name() string { return "mean_traction" }

func (m *MeanTraction) Observe(s sim.Sample) {
	m.sum += s.Output.Traction
	m.samples++
}

func (m *MeanTraction) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanTraction) Reset() {
	m.sum = 0
	m.samples = 0
}

// Peak tracks the maximum of one output quantity.
type Peak struct {
	name string
	get  func(sim.Sample) float64
	max  float64
}

func NewPeakTraction() *Peak {
	return &Peak{name: "peak_traction", get: func(s sim.Sample) float64 { return s.Output.Traction }}
}

func NewPeakKiteSpeed() *Peak {
	return &Peak{name: "peak_kite_speed", get: func(s sim.Sample) float64 { return s.Output.KiteSpeed }}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(s sim.Sample) {
	p.max = math.Max(p.max, p.get(s))
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() { p.max = 0 }
