package kite

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/kitesim/internal/geom"
)

// Forces is everything the aerodynamic model derives from one state.
// Vectors are in the K0 frame unless named otherwise.
type Forces struct {
	Wind         ApparentWind
	KiteVelocity mgl64.Vec3 // tether-end velocity relative to the pivot
	Airflow      mgl64.Vec3 // relative airflow, wind-reference frame
	Airspeed     float64
	Alpha0       float64 // geometric incidence
	Alpha        float64 // geometric plus trim incidence
	Lift         float64
	Drag         float64
	Aero         mgl64.Vec3
	External     mgl64.Vec3 // aero plus gravity
	Va           float64    // airspeed along the kite roll axis
}

// Forces computes the airflow, incidence and external force for s under in.
// It fails with a *DegenerateStateError at the first non-finite intermediate.
func (m *Model) Forces(s State, in Input) (Forces, error) {
	return m.constants().forces(s, in)
}

func (c constants) forces(s State, in Input) (Forces, error) {
	var f Forces
	f.Wind = ResolveWind(c.tws, c.twaDeg, s.BoatHeading, s.BoatSpeed)
	if err := checkFinite("apparent_wind", f.Wind.AWAMg, f.Wind.AWS, f.Wind.AWAB, f.Wind.TWAB); err != nil {
		return f, err
	}

	f.KiteVelocity = mgl64.Vec3{-c.r * s.DTheta, c.r * s.DPhi * math.Cos(s.Theta), 0}
	f.Airflow = TrueWind(c.tws, c.twaDeg).Sub(geom.K0ToWR(f.KiteVelocity, s.Phi, s.Theta))
	f.Airspeed = f.Airflow.Len()

	yb := geom.BodyToK0(mgl64.Vec3{0, 1, 0}, math.Pi+s.Psi)
	zb := geom.BodyToK0(mgl64.Vec3{0, 0, 1}, math.Pi+s.Psi)
	xaWR := f.Airflow.Mul(-1 / f.Airspeed)
	if err := checkVec("airflow_direction", xaWR); err != nil {
		return f, err
	}
	xa := geom.WRToK0(xaWR, s.Phi, s.Theta)

	f.Alpha0 = math.Pi/2 - geom.AngleBetween(zb, xa)
	trim := c.ki*in.Epsilon.Value + c.alphaI0
	f.Alpha = f.Alpha0 + trim
	if err := checkFinite("alpha", f.Alpha); err != nil {
		return f, err
	}

	f.Lift = 0.5 * c.rho * c.cl * f.Alpha * c.area * f.Airspeed * f.Airspeed
	f.Drag = 0.5 * c.rho * c.cd * f.Alpha * c.area * f.Airspeed * f.Airspeed

	minusXa := xa.Mul(-1)
	cr := minusXa.Cross(yb)
	xLift := cr.Mul(1 / cr.Len())
	if err := checkVec("lift_direction", xLift); err != nil {
		return f, err
	}

	f.Aero = xLift.Mul(f.Lift).Add(minusXa.Mul(f.Drag))
	weight := mgl64.Vec3{c.m * c.g * math.Cos(s.Theta), 0, c.m * c.g * math.Sin(s.Theta)}
	f.External = f.Aero.Add(weight)
	if err := checkVec("external_force", f.External); err != nil {
		return f, err
	}

	rb := geom.BodyToK0(geom.WRToK0(f.Airflow, s.Phi, s.Theta), -math.Pi-s.Psi)
	f.Va = -rb[0]
	return f, checkFinite("va", f.Va)
}
