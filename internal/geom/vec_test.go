package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var samples = []mgl64.Vec3{
	{1, 2, 3},
	{-4, 0.5, 2},
	{0, 0, 1},
	{7.25, -3.5, -0.125},
	{1e-3, 1e3, -42},
}

func TestVectorLaws(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			if a.Dot(b) != b.Dot(a) {
				t.Errorf("dot not symmetric for %v, %v", a, b)
			}

			lhs := a.Cross(b).LenSqr() + a.Dot(b)*a.Dot(b)
			rhs := a.LenSqr() * b.LenSqr()
			if math.Abs(lhs-rhs) > 1e-9*math.Max(1, rhs) {
				t.Errorf("lagrange identity: %v != %v for %v, %v", lhs, rhs, a, b)
			}
		}

		if sum := a.Add(a.Mul(-1)); sum != Zero {
			t.Errorf("a + (-a) = %v, want zero", sum)
		}
	}
}

func TestCrossComponents(t *testing.T) {
	a := mgl64.Vec3{1, 2, 3}
	b := mgl64.Vec3{4, 5, 6}
	want := mgl64.Vec3{2*6 - 5*3, 4*3 - 1*6, 1*5 - 4*2}
	if got := a.Cross(b); got != want {
		t.Errorf("cross = %v, want %v", got, want)
	}
}

func TestConstrain(t *testing.T) {
	tests := []struct {
		name           string
		val            float64
		minDeg, maxDeg float64
		want           float64
	}{
		{"inside", 0.5, 0, 90, 0.5},
		{"below", -0.1, 0, 90, 0},
		{"above", 2.0, 0, 90, math.Pi / 2},
		{"rate upper", 50, -1000, 1000, Radians(1000)},
		{"rate lower", -50, -1000, 1000, Radians(-1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Constrain(tt.val, tt.minDeg, tt.maxDeg); got != tt.want {
				t.Errorf("Constrain(%v, %v, %v) = %v, want %v", tt.val, tt.minDeg, tt.maxDeg, got, tt.want)
			}
		})
	}

	if !math.IsNaN(Constrain(math.NaN(), 0, 90)) {
		t.Error("NaN should propagate through Constrain")
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.12340001, 0.1234},
		{0.12345678, 0.1235},
		{-0.12345678, -0.1235},
		{0.03125, 0.0313},
		{-0.03125, -0.0313},
		{1.5, 1.5},
		{0, 0},
		{123456.789012, 123456.789},
	}

	for _, tt := range tests {
		if got := Round4(tt.in); got != tt.want {
			t.Errorf("Round4(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := Round4(-0.00001); got != 0 || !math.Signbit(got) {
		t.Errorf("Round4(-0.00001) = %v, want -0", got)
	}
	if !math.IsNaN(Round4(math.NaN())) {
		t.Error("NaN should propagate through Round4")
	}
	if !math.IsInf(Round4(math.Inf(1)), 1) {
		t.Error("+Inf should propagate through Round4")
	}
}

func TestAngleBetween(t *testing.T) {
	x := mgl64.Vec3{1, 0, 0}
	y := mgl64.Vec3{0, 3, 0}

	if got := AngleBetween(x, y); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("angle = %v, want pi/2", got)
	}
	if got := AngleBetween(x, x.Mul(2)); math.Abs(got) > 1e-12 {
		t.Errorf("angle = %v, want 0", got)
	}
	if !math.IsNaN(AngleBetween(x, Zero)) {
		t.Error("angle with zero vector should be NaN")
	}
}

func TestFinite(t *testing.T) {
	if !Finite(mgl64.Vec3{1, 2, 3}) {
		t.Error("finite vector reported as non-finite")
	}
	if Finite(mgl64.Vec3{1, math.NaN(), 3}) {
		t.Error("NaN component not detected")
	}
	if Finite(mgl64.Vec3{math.Inf(-1), 0, 0}) {
		t.Error("Inf component not detected")
	}
}
