package geom

import (
	"math"
	"math/big"

	"github.com/go-gl/mathgl/mgl64"
)

// Zero is the zero vector.
var Zero = mgl64.Vec3{}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Constrain clamps val into [Radians(minDeg), Radians(maxDeg)].
// The bounds are not reordered: minDeg must not exceed maxDeg.
func Constrain(val, minDeg, maxDeg float64) float64 {
	return math.Max(Radians(minDeg), math.Min(Radians(maxDeg), val))
}

// Round quantizes x to the given number of decimal digits. Exact ties round
// away from zero and a negative input that rounds to zero keeps its sign.
// NaN and Inf are returned unchanged.
func Round(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	r := new(big.Rat).SetFloat64(x)
	r.Mul(r, new(big.Rat).SetInt(scale))

	num := new(big.Int).Abs(r.Num())
	den := r.Denom()
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Lsh(rem, 1).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}

	if x < 0 {
		if q.Sign() == 0 {
			return math.Copysign(0, -1)
		}
		q.Neg(q)
	}

	f, _ := new(big.Rat).SetFrac(q, scale).Float64()
	return f
}

// Round4 is Round(x, 4).
func Round4(x float64) float64 {
	return Round(x, 4)
}

// AngleBetween returns acos(a.b / (|a||b|)). The result is NaN when either
// vector has zero length.
func AngleBetween(a, b mgl64.Vec3) float64 {
	return math.Acos(a.Dot(b) / (a.Len() * b.Len()))
}

// Finite reports whether every component of v is neither NaN nor Inf.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
