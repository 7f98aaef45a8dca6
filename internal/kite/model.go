package kite

import (
	"fmt"

	"github.com/san-kum/kitesim/internal/params"
)

// Model binds the parameter and disturbance registries to the equations of
// motion. A Model holds no simulation state.
type Model struct {
	params      *params.Registry
	disturbance *params.Registry
	boat        BoatDynamics
}

// NewModel uses the given registries, or the defaults when nil. The
// registries are shared, not copied.
func NewModel(p, d *params.Registry) *Model {
	if p == nil {
		p = params.DefaultModel()
	}
	if d == nil {
		d = params.DefaultDisturbance()
	}
	return &Model{params: p, disturbance: d, boat: HoldSpeed{}}
}

// WithBoatDynamics replaces the boat speed hook and returns the model.
func (m *Model) WithBoatDynamics(b BoatDynamics) *Model {
	if b == nil {
		b = HoldSpeed{}
	}
	m.boat = b
	return m
}

func (m *Model) Params() *params.Registry      { return m.params }
func (m *Model) Disturbance() *params.Registry { return m.disturbance }

// Clone returns a model with independent copies of both registries. The
// boat hook is shared; it reads parameters from whichever model steps.
func (m *Model) Clone() *Model {
	return &Model{
		params:      m.params.Clone(),
		disturbance: m.disturbance.Clone(),
		boat:        m.boat,
	}
}

// GetParams returns model and disturbance values in one map.
func (m *Model) GetParams() map[string]float64 {
	out := m.params.Values()
	for k, v := range m.disturbance.Values() {
		out[k] = v
	}
	return out
}

// SetParam writes to whichever registry defines name.
func (m *Model) SetParam(name string, value float64) error {
	if _, ok := m.params.Get(name); ok {
		return m.params.Set(name, value)
	}
	if _, ok := m.disturbance.Get(name); ok {
		return m.disturbance.Set(name, value)
	}
	return fmt.Errorf("%w: %s", params.ErrUnknownParam, name)
}

type constants struct {
	r, area, cl, cd, m float64
	gk, mk, rho, g     float64
	ki, alphaI0        float64
	tws, twaDeg        float64
}

func (m *Model) constants() constants {
	p, d := m.params, m.disturbance
	return constants{
		r:       p.Value(params.TetherLength),
		area:    p.Value(params.KiteArea),
		cl:      p.Value(params.LiftCoef),
		cd:      p.Value(params.DragCoef),
		m:       p.Value(params.KiteMass),
		gk:      p.Value(params.TurnRateGain),
		mk:      p.Value(params.MassEffect),
		rho:     p.Value(params.AirDensity),
		g:       p.Value(params.Gravity),
		ki:      p.Value(params.TrimGain),
		alphaI0: p.Value(params.BaseIncidence),
		tws:     d.Value(params.TrueWindSpeed),
		twaDeg:  d.Value(params.TrueWindAngle),
	}
}

// Step advances s by dt under the controls in. The output describes s, the
// state the step started from. On a degenerate state Step returns s
// unchanged, a zero Output and an error wrapping ErrDegenerateState.
func (m *Model) Step(s State, in Input, dt float64) (State, Output, error) {
	c := m.constants()

	f, err := c.forces(s, in)
	if err != nil {
		return s, Output{}, err
	}
	r, err := c.rates(s, f, in)
	if err != nil {
		return s, Output{}, err
	}

	next := Advance(s, r, in.BoatHeadingSpeed.Value, dt)
	next.BoatSpeed = m.boat.NextBoatSpeed(s, f, m.params, dt)
	next.AWAMg = f.Wind.AWAMg
	next.AWS = f.Wind.AWS
	next.AWAB = f.Wind.AWAB
	next.TWAB = f.Wind.TWAB
	if err := checkFinite("next_state", next.Fields()...); err != nil {
		return s, Output{}, err
	}

	out := Project(s, f, c.r, c.area)
	if err := checkFinite("output", out.Fields()...); err != nil {
		return s, Output{}, err
	}
	return next, out, nil
}
