package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyToK0 rotates v by psi about the vertical axis shared by the body and K0
// frames.
func BodyToK0(v mgl64.Vec3, psi float64) mgl64.Vec3 {
	x, y, z := v[0], v[1], v[2]
	s, c := math.Sin(psi), math.Cos(psi)
	return mgl64.Vec3{
		x*c - y*s,
		x*s + y*c,
		z,
	}
}

// K0ToWR maps a K0 vector into the wind-reference frame. The elevation is
// shifted by -pi/2 so that theta = 0 puts the tether on the horizon.
func K0ToWR(v mgl64.Vec3, phi, theta float64) mgl64.Vec3 {
	x, y, z := v[0], v[1], v[2]
	sp, cp := math.Sin(phi), math.Cos(phi)
	st, ct := math.Sin(theta-math.Pi/2), math.Cos(theta-math.Pi/2)
	return mgl64.Vec3{
		x*cp*ct - y*sp + z*cp*st,
		y*cp + x*sp*ct + z*sp*st,
		z*ct - x*st,
	}
}

// WRToK0 is the inverse of K0ToWR.
func WRToK0(v mgl64.Vec3, phi, theta float64) mgl64.Vec3 {
	x, y, z := v[0], v[1], v[2]
	sp, cp := math.Sin(phi), math.Cos(phi)
	st, ct := math.Sin(theta-math.Pi/2), math.Cos(theta-math.Pi/2)
	return mgl64.Vec3{
		x*cp*ct - z*st + y*sp*ct,
		y*cp - x*sp,
		z*ct + x*cp*st + y*sp*st,
	}
}

// TetherPoint is the position of the kite end of a tether of length r, measured
// from the ground pivot in the wind-reference frame.
func TetherPoint(r, phi, theta float64) mgl64.Vec3 {
	return mgl64.Vec3{
		r * math.Cos(phi) * math.Cos(theta),
		r * math.Sin(phi) * math.Cos(theta),
		-r * math.Sin(theta),
	}
}
