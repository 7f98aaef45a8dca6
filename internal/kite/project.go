package kite

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/kitesim/internal/geom"
)

// Project derives the rendering output from the state the forces were
// computed on. Tether endpoints are the kite wing tips in the wind-reference
// frame, offset by the tether point.
func Project(s State, f Forces, tetherLength, kiteArea float64) Output {
	p := geom.TetherPoint(tetherLength, s.Phi, s.Theta)
	half := math.Sqrt(kiteArea / 3)

	tip := func(y float64) mgl64.Vec3 {
		return geom.K0ToWR(geom.BodyToK0(mgl64.Vec3{0, y, 0}, s.Psi), s.Phi, s.Theta).Add(p)
	}

	return Output{
		KiteSpeed:   f.KiteVelocity.Len(),
		LeftTether:  tip(-half),
		RightTether: tip(half),
		Traction:    f.Aero.Len(),
	}
}
