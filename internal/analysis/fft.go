package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitudes of the first half of the DFT of the
// mean-removed data.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-stat.Mean(data, nil), centered)

	spec := fft.FFTReal(centered)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of samples taken every dt seconds, and its magnitude. It returns 0, 0 for
// fewer than four samples or a constant signal.
func DominantFrequency(samples []float64, dt float64) (freq, magnitude float64) {
	if len(samples) < 4 || dt <= 0 {
		return 0, 0
	}

	ps := PowerSpectrum(samples)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] < 1e-12 {
		return 0, 0
	}
	return float64(best) / (float64(len(samples)) * dt), ps[best]
}

// Period is 1/DominantFrequency, or +Inf when there is none.
func Period(samples []float64, dt float64) float64 {
	f, _ := DominantFrequency(samples, dt)
	if f == 0 {
		return math.Inf(1)
	}
	return 1 / f
}
