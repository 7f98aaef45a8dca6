package control

import (
	"sort"

	"github.com/san-kum/kitesim/internal/kite"
)

// Segment switches to Command at time At (seconds).
type Segment struct {
	At           float64 `yaml:"at" json:"at"`
	kite.Command `yaml:",inline"`
}

// Schedule is a piecewise-constant command profile. Before the first
// segment it returns Base.
type Schedule struct {
	Base     kite.Command
	segments []Segment
}

// NewSchedule copies and sorts segs by start time. Segments sharing a start
// time keep their given order; the last one wins.
func NewSchedule(base kite.Command, segs []Segment) *Schedule {
	s := make([]Segment, len(segs))
	copy(s, segs)
	sort.SliceStable(s, func(i, j int) bool { return s[i].At < s[j].At })
	return &Schedule{Base: base, segments: s}
}

func (s *Schedule) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

func (s *Schedule) Compute(x kite.State, t float64) kite.Command {
	// index of the first segment starting after t
	i := sort.Search(len(s.segments), func(i int) bool { return s.segments[i].At > t })
	if i == 0 {
		return s.Base
	}
	return s.segments[i-1].Command
}
