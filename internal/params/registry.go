// Package params holds named, bounded, steppable scalars: the physical
// constants of the kite model and the wind disturbance inputs.
//
// Bounds are descriptive. Set stores any value; only Nudge, which mirrors a
// slider or key press, clamps to [Min, Max].
package params

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownParam is returned when a name is not in the registry.
var ErrUnknownParam = errors.New("params: unknown parameter")

// Scalar is one bounded value with its UI metadata.
type Scalar struct {
	Name     string  `yaml:"name" json:"name"`
	Value    float64 `yaml:"value" json:"value"`
	Min      float64 `yaml:"min" json:"min"`
	Max      float64 `yaml:"max" json:"max"`
	Step     float64 `yaml:"step" json:"step"`
	Disabled bool    `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Nudge moves the value by n steps and clamps it to the declared bounds.
func (s Scalar) Nudge(n int) Scalar {
	s.Value = math.Max(s.Min, math.Min(s.Max, s.Value+float64(n)*s.Step))
	return s
}

// InBounds reports whether the value lies within [Min, Max].
func (s Scalar) InBounds() bool {
	return s.Value >= s.Min && s.Value <= s.Max
}

// Registry is an ordered mapping from key to Scalar. It is not safe for
// concurrent mutation; writers must be serialized with readers.
type Registry struct {
	keys   []string
	values map[string]Scalar
}

func NewRegistry() *Registry {
	return &Registry{values: make(map[string]Scalar)}
}

// Define adds or replaces a parameter. New keys keep insertion order.
func (r *Registry) Define(key string, s Scalar) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = s
}

func (r *Registry) Get(key string) (Scalar, bool) {
	s, ok := r.values[key]
	return s, ok
}

// Value returns the current value of key, or 0 when it is not defined.
func (r *Registry) Value(key string) float64 {
	return r.values[key].Value
}

func (r *Registry) Set(key string, value float64) error {
	s, ok := r.values[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, key)
	}
	s.Value = value
	r.values[key] = s
	return nil
}

// Nudge applies Scalar.Nudge to key and returns the new value.
func (r *Registry) Nudge(key string, n int) (float64, error) {
	s, ok := r.values[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, key)
	}
	s = s.Nudge(n)
	r.values[key] = s
	return s.Value, nil
}

func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Registry) Len() int {
	return len(r.keys)
}

// Values returns a key -> value snapshot.
func (r *Registry) Values() map[string]float64 {
	out := make(map[string]float64, len(r.keys))
	for _, k := range r.keys {
		out[k] = r.values[k].Value
	}
	return out
}

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]Scalar, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Apply sets every value in overrides. It stops at the first unknown key.
func (r *Registry) Apply(overrides map[string]float64) error {
	for k, v := range overrides {
		if err := r.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
