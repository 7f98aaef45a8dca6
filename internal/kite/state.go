package kite

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/kitesim/internal/params"
)

// State is the full simulation state. Angles are radians, rates rad/s, boat
// speed knots and AWS m/s. The four wind fields are derived on every step.
type State struct {
	Theta       float64 `json:"theta" yaml:"theta"`
	Phi         float64 `json:"phi" yaml:"phi"`
	Psi         float64 `json:"psi" yaml:"psi"`
	DTheta      float64 `json:"dtheta" yaml:"dtheta"`
	DPhi        float64 `json:"dphi" yaml:"dphi"`
	BoatHeading float64 `json:"boat_heading" yaml:"boat_heading"`
	BoatSpeed   float64 `json:"boat_speed" yaml:"boat_speed"`
	AWAMg       float64 `json:"awa_mg" yaml:"awa_mg"`
	AWS         float64 `json:"aws" yaml:"aws"`
	AWAB        float64 `json:"awa_b" yaml:"awa_b"`
	TWAB        float64 `json:"twa_b" yaml:"twa_b"`
}

// StateFields names the columns returned by State.Fields.
var StateFields = []string{
	"theta", "phi", "psi", "dtheta", "dphi",
	"boat_heading", "boat_speed", "awa_mg", "aws", "awa_b", "twa_b",
}

func (s State) Fields() []float64 {
	return []float64{
		s.Theta, s.Phi, s.Psi, s.DTheta, s.DPhi,
		s.BoatHeading, s.BoatSpeed, s.AWAMg, s.AWS, s.AWAB, s.TWAB,
	}
}

// DefaultState is the start-up snapshot: tether at 45 degrees elevation and
// -40 degrees azimuth, everything else at rest.
func DefaultState() State {
	return State{
		Theta: math.Pi / 4,
		Phi:   -40 * math.Pi / 180,
	}
}

// ResetState returns the start-up snapshot regardless of prior history.
func ResetState() State {
	return DefaultState()
}

// Output is recomputed every tick for the rendering layer.
type Output struct {
	KiteSpeed   float64    `json:"kite_speed"`
	LeftTether  mgl64.Vec3 `json:"left_tether"`
	RightTether mgl64.Vec3 `json:"right_tether"`
	Traction    float64    `json:"traction"`
}

var OutputFields = []string{
	"kite_speed", "traction",
	"left_x", "left_y", "left_z",
	"right_x", "right_y", "right_z",
}

func (o Output) Fields() []float64 {
	return []float64{
		o.KiteSpeed, o.Traction,
		o.LeftTether[0], o.LeftTether[1], o.LeftTether[2],
		o.RightTether[0], o.RightTether[1], o.RightTether[2],
	}
}

func DefaultOutput() Output {
	return Output{}
}

// ResetOutput returns the start-up output snapshot.
func ResetOutput() Output {
	return DefaultOutput()
}

// Command carries the three control values without their metadata.
type Command struct {
	Delta            float64 `json:"delta" yaml:"delta"`
	Epsilon          float64 `json:"epsilon" yaml:"epsilon"`
	BoatHeadingSpeed float64 `json:"boat_heading_speed" yaml:"boat_heading_speed"`
}

var CommandFields = []string{"delta", "epsilon", "boat_heading_speed"}

func (c Command) Fields() []float64 {
	return []float64{c.Delta, c.Epsilon, c.BoatHeadingSpeed}
}

// Input holds the operator controls. Bounds are UI metadata; the model does
// not enforce them.
type Input struct {
	Delta            params.Scalar `json:"delta" yaml:"delta"`
	Epsilon          params.Scalar `json:"epsilon" yaml:"epsilon"`
	BoatHeadingSpeed params.Scalar `json:"boat_heading_speed" yaml:"boat_heading_speed"`
}

func DefaultInput() Input {
	return Input{
		Delta:            params.Scalar{Name: "differential trim (m)", Step: 0.01, Min: -0.4, Max: 0.4},
		Epsilon:          params.Scalar{Name: "sheet/ease (m)", Step: 0.5, Min: -5, Max: 5},
		BoatHeadingSpeed: params.Scalar{Name: "rudder rotation rate (rad/s)", Step: 0.05, Min: -math.Pi, Max: math.Pi},
	}
}

// Reset zeroes the three control values and keeps their metadata.
func (in *Input) Reset() {
	in.Delta.Value = 0
	in.Epsilon.Value = 0
	in.BoatHeadingSpeed.Value = 0
}

func (in Input) Command() Command {
	return Command{
		Delta:            in.Delta.Value,
		Epsilon:          in.Epsilon.Value,
		BoatHeadingSpeed: in.BoatHeadingSpeed.Value,
	}
}

// With returns a copy of in carrying the values of c.
func (in Input) With(c Command) Input {
	in.Delta.Value = c.Delta
	in.Epsilon.Value = c.Epsilon
	in.BoatHeadingSpeed.Value = c.BoatHeadingSpeed
	return in
}
