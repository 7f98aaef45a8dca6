package kite

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrDegenerateState indicates a step produced NaN or Inf in a physical quantity.
var ErrDegenerateState = errors.New("kite: degenerate state (NaN or Inf detected)")

// DegenerateStateError names the first non-finite quantity found during a step.
type DegenerateStateError struct {
	Quantity string
	Value    float64
}

func (e *DegenerateStateError) Error() string {
	return fmt.Sprintf("kite: degenerate %s (%v)", e.Quantity, e.Value)
}

func (e *DegenerateStateError) Unwrap() error {
	return ErrDegenerateState
}

func checkFinite(name string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DegenerateStateError{Quantity: name, Value: v}
		}
	}
	return nil
}

func checkVec(name string, v mgl64.Vec3) error {
	return checkFinite(name, v[0], v[1], v[2])
}
