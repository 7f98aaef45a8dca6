package analysis

import (
	"math"
	"strings"
	"testing"
)

func sine(n int, dt, freq, amp, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + amp*math.Sin(2*math.Pi*freq*float64(i)*dt)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		n    int
		dt   float64
		freq float64
	}{
		{"power of two", 1024, 0.01, 2.0},
		{"odd length", 1000, 0.02, 0.5},
		{"slow loop", 3000, 0.02, 0.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mag := DominantFrequency(sine(tt.n, tt.dt, tt.freq, 1, 3), tt.dt)
			resolution := 1 / (float64(tt.n) * tt.dt)
			if math.Abs(got-tt.freq) > resolution {
				t.Errorf("frequency = %v, want %v (+-%v)", got, tt.freq, resolution)
			}
			if mag <= 0 {
				t.Errorf("magnitude = %v, want > 0", mag)
			}
		})
	}
}

func TestDominantFrequencyDegenerate(t *testing.T) {
	if f, _ := DominantFrequency([]float64{1, 2}, 0.1); f != 0 {
		t.Errorf("short input: got %v", f)
	}
	if f, _ := DominantFrequency([]float64{5, 5, 5, 5, 5, 5, 5, 5}, 0.1); f != 0 {
		t.Errorf("constant input: got %v", f)
	}
	if p := Period([]float64{5, 5, 5, 5}, 0.1); !math.IsInf(p, 1) {
		t.Errorf("period = %v, want +Inf", p)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	if s.N != 8 || s.Min != 2 || s.Max != 9 || s.Mean != 5 {
		t.Errorf("summary = %+v", s)
	}
	if want := math.Sqrt(32.0 / 7); math.Abs(s.StdDev-want) > 1e-12 {
		t.Errorf("stddev = %v, want %v", s.StdDev, want)
	}

	if got := Summarize(nil); got != (Summary{}) {
		t.Errorf("empty summary = %+v", got)
	}
	if got := Summarize([]float64{3}); got.StdDev != 0 || got.Mean != 3 {
		t.Errorf("single summary = %+v", got)
	}
}

func TestRMS(t *testing.T) {
	if got := RMS([]float64{3, -3, 3, -3}); got != 3 {
		t.Errorf("RMS = %v, want 3", got)
	}
	if RMS(nil) != 0 {
		t.Error("RMS(nil) != 0")
	}
}

func TestPhasePortrait(t *testing.T) {
	p := PhasePortrait("phi", []float64{-1, 0, 1, 2}, "theta", []float64{0, 1, 0})
	if len(p.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(p.Points))
	}

	art := PhasePortraitToASCII(p, 20, 10)
	if lines := strings.Split(strings.TrimRight(art, "\n"), "\n"); len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}
	if !strings.ContainsRune(art, '•') {
		t.Error("no points plotted")
	}
	if PhasePortraitToASCII(nil, 10, 10) != "" {
		t.Error("nil portrait should render empty")
	}
}

func TestPoincareSection(t *testing.T) {
	cross := []float64{-1, 1, -1, 1}
	xs := []float64{0, 10, 20, 30}
	ys := []float64{0, 2, 4, 6}

	s := NewPoincareSection(cross, 0, xs, ys)
	if len(s.Points) != 2 {
		t.Fatalf("expected 2 crossings, got %d", len(s.Points))
	}
	if s.Points[0] != (Point{X: 5, Y: 1}) {
		t.Errorf("first crossing = %+v", s.Points[0])
	}
	if s.Points[1] != (Point{X: 25, Y: 5}) {
		t.Errorf("second crossing = %+v", s.Points[1])
	}

	if got := PoincareSectionToASCII(NewPoincareSection([]float64{1, 1}, 0, xs, ys), 10, 5); got != "No crossings detected" {
		t.Errorf("got %q", got)
	}
}
