package kite

import "github.com/san-kum/kitesim/internal/params"

// BoatDynamics decides the boat speed for the next step. p is the parameter
// registry of the model doing the step, so a cloned model hands the hook its
// own values. Implementations must not keep p beyond the call.
type BoatDynamics interface {
	NextBoatSpeed(s State, f Forces, p *params.Registry, dt float64) float64
}

// HoldSpeed keeps the boat speed unchanged. It is the default and the only
// boat model shipped.
type HoldSpeed struct{}

func (HoldSpeed) NextBoatSpeed(s State, _ Forces, _ *params.Registry, _ float64) float64 {
	return s.BoatSpeed
}
