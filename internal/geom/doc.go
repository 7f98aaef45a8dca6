// Package geom provides the vector helpers and reference-frame rotations used
// by the kite model.
//
// Vectors are [mgl64.Vec3] values; the arithmetic (Add, Sub, Mul, Dot, Cross,
// Len) comes from mathgl. This package adds the pieces mathgl does not have:
//
//   - [Constrain]: clamp a radian value into a range given in degrees
//   - [Round]: decimal quantization matching the simulator's 4-digit contract
//   - [AngleBetween]: unguarded acos of the normalized dot product
//   - [BodyToK0], [K0ToWR], [WRToK0]: body, tether (K0) and wind-reference frames
//
// # Frames
//
// The tether is a rigid rod pivoting at a fixed ground anchor. K0 is anchored at
// that pivot and oriented by azimuth phi and elevation theta; WR is the fixed
// wind-reference frame. The kite body frame differs from K0 by the heading psi
// about the shared vertical axis.
//
// Nothing here guards against degenerate input: zero-length vectors and NaN
// propagate to the caller, which is expected to validate results.
package geom
