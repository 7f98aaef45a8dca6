package kite

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/kitesim/internal/geom"
)

// KnotToMPS converts knots to metres per second.
const KnotToMPS = 0.514444

// ApparentWind is the wind seen from the moving boat. Angles are radians,
// AWS is m/s.
type ApparentWind struct {
	AWAMg float64
	AWS   float64
	AWAB  float64
	TWAB  float64
}

// ResolveWind subtracts the boat velocity from the true wind in the ground
// x/z plane. tws and boatSpeed are knots, twaDeg degrees, boatHeading radians.
func ResolveWind(tws, twaDeg, boatHeading, boatSpeed float64) ApparentWind {
	twa := geom.Radians(twaDeg)
	wind := tws * KnotToMPS
	boat := boatSpeed * KnotToMPS

	x := wind*math.Cos(twa) - boat*math.Cos(boatHeading)
	z := wind*math.Sin(twa) - boat*math.Sin(boatHeading)
	awa := math.Atan2(z, x)

	return ApparentWind{
		AWAMg: awa,
		AWS:   math.Sqrt(x*x + z*z),
		AWAB:  awa - boatHeading,
		TWAB:  twa - boatHeading,
	}
}

// TrueWind is the true wind velocity in the wind-reference frame, m/s.
func TrueWind(tws, twaDeg float64) mgl64.Vec3 {
	twa := geom.Radians(twaDeg)
	wind := tws * KnotToMPS
	return mgl64.Vec3{wind * math.Cos(twa), -wind * math.Sin(twa), 0}
}
