// Package kite is the physics core of the simulator: a tethered kite towing a
// boat, advanced by fixed explicit Euler steps.
//
// One tick is a single call to [Model.Step]:
//
//	wind   := ResolveWind(...)            // apparent wind around the boat
//	forces := model.Forces(state, input)  // airflow, incidence, lift, drag, gravity
//	rates  := model.Rates(state, forces, input)
//	next   := Advance(state, rates, rudderRate, dt)
//	out    := Project(state, forces, r, A_k)
//
// # State Ownership
//
// Step never mutates its arguments and keeps no state between calls. The
// caller owns the [State] and [Input] records and must not step the same
// state from two goroutines. Model parameters and wind are read from
// [params.Registry] values held by the [Model]; writes to those registries
// have to be serialized with Step by the caller.
//
// # Quantization
//
// Theta, phi, psi and the two tether rates are rounded to four decimals
// before clamping on every step. Boat heading is accumulated unrounded.
//
// # Degenerate States
//
// Zero relative airflow, a tether at the zenith and a vanishing roll-axis
// airspeed make the equations singular. Step reports these as a
// [*DegenerateStateError] instead of returning NaN or Inf values.
package kite
