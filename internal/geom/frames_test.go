package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// near compares component-wise with an absolute tolerance. mgl64's
// ApproxEqualThreshold turns relative near zero and rejects 1e-16 round-off.
func near(got, want mgl64.Vec3, tol float64) bool {
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}

func TestFrameInverse(t *testing.T) {
	angles := []float64{-math.Pi, -2, -40 * math.Pi / 180, 0, 0.3, math.Pi / 4, math.Pi / 2, 3}

	for _, v := range samples {
		for _, phi := range angles {
			for _, theta := range angles {
				back := WRToK0(K0ToWR(v, phi, theta), phi, theta)
				if !near(back, v, 1e-9*math.Max(1, v.Len())) {
					t.Fatalf("WRToK0(K0ToWR(%v, %v, %v)) = %v", v, phi, theta, back)
				}
			}
		}
	}
}

func TestFramesPreserveLength(t *testing.T) {
	for _, v := range samples {
		for _, a := range []float64{-1.2, 0, 0.7, 2.9} {
			if d := BodyToK0(v, a).Len() - v.Len(); math.Abs(d) > 1e-9 {
				t.Errorf("BodyToK0 changed length by %v", d)
			}
			if d := K0ToWR(v, a, a/2).Len() - v.Len(); math.Abs(d) > 1e-9 {
				t.Errorf("K0ToWR changed length by %v", d)
			}
		}
	}
}

func TestBodyToK0QuarterTurn(t *testing.T) {
	got := BodyToK0(mgl64.Vec3{1, 0, 5}, math.Pi/2)
	want := mgl64.Vec3{0, 1, 5}
	if !near(got, want, 1e-12) {
		t.Errorf("BodyToK0 = %v, want %v", got, want)
	}
}

func TestK0ToWRZenith(t *testing.T) {
	// At theta = pi/2 and phi = 0 the frames coincide.
	v := mgl64.Vec3{1, 2, 3}
	if got := K0ToWR(v, 0, math.Pi/2); !near(got, v, 1e-12) {
		t.Errorf("K0ToWR at zenith = %v, want %v", got, v)
	}
}

func TestTetherPoint(t *testing.T) {
	p := TetherPoint(50, 0, 0)
	if !near(p, mgl64.Vec3{50, 0, 0}, 1e-12) {
		t.Errorf("horizontal tether = %v", p)
	}

	p = TetherPoint(50, 0.4, math.Pi/2)
	if math.Abs(p[2]+50) > 1e-12 || math.Abs(p[0]) > 1e-9 {
		t.Errorf("vertical tether = %v", p)
	}

	if d := TetherPoint(50, -0.7, 0.9).Len(); math.Abs(d-50) > 1e-9 {
		t.Errorf("tether length = %v, want 50", d)
	}
}
