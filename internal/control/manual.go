package control

import (
	"sync"

	"github.com/san-kum/kitesim/internal/kite"
)

// Manual passes through the command last set by the operator. Set and
// Compute may be called from different goroutines.
type Manual struct {
	mu sync.RWMutex
	u  kite.Command
}

func NewManual() *Manual {
	return &Manual{}
}

// Set replaces the current command.
func (c *Manual) Set(u kite.Command) {
	c.mu.Lock()
	c.u = u
	c.mu.Unlock()
}

// SetInput copies the three control values out of in.
func (c *Manual) SetInput(in kite.Input) {
	c.Set(in.Command())
}

func (c *Manual) Compute(x kite.State, t float64) kite.Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.u
}
