package sim

import "github.com/san-kum/kitesim/internal/kite"

// Controller supplies the control values for the state at time t.
type Controller interface {
	Compute(x kite.State, t float64) kite.Command
}

// Sample is one recorded step: the state at Time, the command applied to it
// and the output derived from it.
type Sample struct {
	Step    int
	Time    float64
	State   kite.State
	Command kite.Command
	Output  kite.Output
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
}

// Steps is the number of whole steps that fit in Duration.
func (c Config) Steps() int {
	return int(c.Duration/c.Dt + 1e-9)
}

// Result holds a run. States has one more entry than Commands and Outputs:
// Outputs[i] and Commands[i] belong to States[i].
type Result struct {
	States     []kite.State
	Outputs    []kite.Output
	Commands   []kite.Command
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
}

// Sample returns the i-th recorded step.
func (r *Result) Sample(i int) Sample {
	return Sample{
		Step:    i,
		Time:    r.Times[i],
		State:   r.States[i],
		Command: r.Commands[i],
		Output:  r.Outputs[i],
	}
}

// Column extracts a named field from every recorded step. Names are those of
// kite.StateFields, kite.OutputFields and kite.CommandFields, plus "time".
// The final state has no output, so the column has StepsTaken entries.
func (r *Result) Column(name string) ([]float64, bool) {
	get, ok := fieldGetter(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, r.StepsTaken)
	for i := range out {
		out[i] = get(r.Sample(i))
	}
	return out, true
}

// Columns lists every name Column accepts, in storage order.
func Columns() []string {
	cols := []string{"time"}
	cols = append(cols, kite.StateFields...)
	cols = append(cols, kite.OutputFields...)
	cols = append(cols, kite.CommandFields...)
	return cols
}

// Row flattens s in Columns order.
func (s Sample) Row() []float64 {
	row := []float64{s.Time}
	row = append(row, s.State.Fields()...)
	row = append(row, s.Output.Fields()...)
	row = append(row, s.Command.Fields()...)
	return row
}

func fieldGetter(name string) (func(Sample) float64, bool) {
	for i, c := range Columns() {
		if c == name {
			idx := i
			return func(s Sample) float64 { return s.Row()[idx] }, true
		}
	}
	return nil, false
}
