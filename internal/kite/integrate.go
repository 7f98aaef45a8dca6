package kite

import (
	"math"

	"github.com/san-kum/kitesim/internal/geom"
)

const (
	// ThetaMinDeg and ThetaMaxDeg bound the tether elevation.
	ThetaMinDeg = 0
	ThetaMaxDeg = 90

	// RateLimitDeg bounds dtheta and dphi. It goes through the same
	// degree-to-radian conversion as the elevation bounds, so the effective
	// limit is about 17.45 rad/s.
	RateLimitDeg = 1000
)

// Rates are the accelerations of the tether angles and the kite yaw rate.
type Rates struct {
	DDTheta float64
	DDPhi   float64
	DPsi    float64
}

// Rates evaluates the equations of motion for s with the forces f.
func (m *Model) Rates(s State, f Forces, in Input) (Rates, error) {
	return m.constants().rates(s, f, in)
}

func (c constants) rates(s State, f Forces, in Input) (Rates, error) {
	sinT, cosT := math.Sin(s.Theta), math.Cos(s.Theta)
	r := Rates{
		DDTheta: (-f.External[0] / (c.r * c.m)) - sinT*cosT*s.DPhi*s.DPhi,
		DDPhi:   (f.External[1] / (c.r * c.m * cosT)) + 2*math.Tan(s.Theta)*s.DTheta*s.DPhi,
		DPsi:    c.gk*f.Va*in.Delta.Value + (c.mk * ((cosT * math.Sin(s.Psi)) / f.Va)) - s.DPhi*sinT,
	}
	if err := checkFinite("ddtheta", r.DDTheta); err != nil {
		return r, err
	}
	if err := checkFinite("ddphi", r.DDPhi); err != nil {
		return r, err
	}
	return r, checkFinite("dpsi", r.DPsi)
}

// Advance takes one explicit Euler step. The three angles and two tether
// rates are rounded to four decimals, then theta and the rates are clamped.
// The boat heading integrates rudderRate unrounded. Boat speed and the
// derived wind fields are carried over unchanged.
func Advance(s State, r Rates, rudderRate, dt float64) State {
	next := s
	next.Theta = geom.Constrain(geom.Round4(s.Theta+s.DTheta*dt), ThetaMinDeg, ThetaMaxDeg)
	next.Phi = geom.Round4(s.Phi + s.DPhi*dt)
	next.Psi = geom.Round4(s.Psi + r.DPsi*dt)
	next.DTheta = geom.Constrain(geom.Round4(s.DTheta+r.DDTheta*dt), -RateLimitDeg, RateLimitDeg)
	next.DPhi = geom.Constrain(geom.Round4(s.DPhi+r.DDPhi*dt), -RateLimitDeg, RateLimitDeg)
	next.BoatHeading = s.BoatHeading + rudderRate*dt
	return next
}
