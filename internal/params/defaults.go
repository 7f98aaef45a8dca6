package params

import "math"

// Model parameter keys.
const (
	TetherLength  = "r"
	KiteArea      = "A_k"
	LiftCoef      = "C_L"
	DragCoef      = "C_D"
	TransCoef     = "C_T"
	KiteMass      = "m"
	TurnRateGain  = "g_k"
	MassEffect    = "M_k"
	AirDensity    = "rho_air"
	Gravity       = "g"
	TrimGain      = "K_i"
	BaseIncidence = "alpha_i0"
	FoilCoef      = "foilCoef"
	BoatMass      = "boatMass"
	WaterFriction = "waterFriction"
)

// Disturbance keys.
const (
	TrueWindSpeed = "TWS"
	TrueWindAngle = "TWA_mg"
)

// DefaultModel returns the reference kite and boat constants.
// C_T and the boat constants are carried for completeness; only a custom
// kite.BoatDynamics reads the boat ones.
func DefaultModel() *Registry {
	r := NewRegistry()
	r.Define(TetherLength, Scalar{Name: "cable length (m)", Value: 50, Min: 0, Max: 100, Step: 1})
	r.Define(KiteArea, Scalar{Name: "kite surface (m^2)", Value: 15, Min: 0, Max: 100, Step: 1})
	r.Define(LiftCoef, Scalar{Name: "lift force coef", Value: 1.2, Min: 0, Max: 100, Step: 1})
	r.Define(DragCoef, Scalar{Name: "drag force coef", Value: 0.2, Min: 0, Max: 100, Step: 1})
	r.Define(TransCoef, Scalar{Name: "trans force coef", Value: 0.2, Min: 0, Max: 100, Step: 1})
	r.Define(KiteMass, Scalar{Name: "kite mass (kg)", Value: 4, Min: 0, Max: 100, Step: 1})
	r.Define(TurnRateGain, Scalar{Name: "turn rate", Value: 0.16652, Min: 0, Max: 100, Step: 1})
	r.Define(MassEffect, Scalar{Name: "mass distribution effect", Value: -3.6438, Min: 0, Max: 100, Step: 1})
	r.Define(AirDensity, Scalar{Name: "air density (kg/m^3)", Value: 1.225, Min: 0, Max: 100, Step: 1})
	r.Define(Gravity, Scalar{Name: "gravity acc (m/s^2)", Value: 9.81, Min: 0, Max: 100, Step: 1})
	r.Define(TrimGain, Scalar{Name: "sheet/ease coef", Value: 0.4474, Min: 0, Max: 100, Step: 1})
	r.Define(BaseIncidence, Scalar{Name: "initial incidence (rad)", Value: 30 * math.Pi / 180, Min: 0, Max: 100, Step: 1})
	r.Define(FoilCoef, Scalar{Name: "foil coef", Value: 0.95, Min: 0, Max: 1, Step: 0.01})
	r.Define(BoatMass, Scalar{Name: "boat mass (kg)", Value: 100, Min: 0, Max: 10000, Step: 1})
	r.Define(WaterFriction, Scalar{Name: "water friction coef", Value: 0.99, Min: 0, Max: 1, Step: 0.01})
	return r
}

// DefaultDisturbance returns the reference wind: 15 kn from 40 degrees.
func DefaultDisturbance() *Registry {
	r := NewRegistry()
	r.Define(TrueWindSpeed, Scalar{Name: "true wind speed (kn)", Value: 15, Min: 0, Max: 80, Step: 1})
	r.Define(TrueWindAngle, Scalar{Name: "true wind angle, 0 = north (deg)", Value: 40, Min: -180, Max: 180, Step: 2})
	return r
}
