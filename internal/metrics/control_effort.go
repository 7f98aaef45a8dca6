package metrics

import (
	"github.com/san-kum/kitesim/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// ControlEffort is the mean over steps of |delta| + |epsilon| + |rudder rate|.
type ControlEffort struct {
	total float64
	n     int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s sim.Sample) {
	c.total += floats.Norm(s.Command.Fields(), 1)
	c.n++
}

func (c *ControlEffort) Value() float64 {
	if c.n == 0 {
		return 0
	}
	return c.total / float64(c.n)
}

func (c *ControlEffort) Reset() { *c = ControlEffort{} }
