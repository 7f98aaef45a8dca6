package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/kitesim/internal/kite"
)

// ErrInvalidConfig is returned for a non-positive Dt or Duration.
var ErrInvalidConfig = errors.New("sim: invalid config")

// SimulationError wraps a step failure with where it happened.
type SimulationError struct {
	Step    int
	Time    float64
	State   kite.State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
