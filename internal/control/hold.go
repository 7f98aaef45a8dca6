package control

import "github.com/san-kum/kitesim/internal/kite"

// Hold returns a fixed command.
type Hold struct {
	Command kite.Command
}

func NewHold(c kite.Command) *Hold {
	return &Hold{Command: c}
}

func (h *Hold) Compute(x kite.State, t float64) kite.Command {
	return h.Command
}
