package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum is a one-sided power spectrum, bin center frequencies in Hz.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum computes the spectrum of a series sampled every dt seconds.
// The mean is removed and a Hann window applied before the transform, so
// the zero bin stays clean and leakage from the finite record is tamed.
func PowerSpectrum(samples []float64, dt float64) *Spectrum {
	n := len(samples)
	if n < 4 || dt <= 0 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	win := window.Hann(n)
	windowed := make([]float64, n)
	for i, v := range samples {
		windowed[i] = (v - mean) * win[i]
	}

	spec := fft.FFTReal(windowed)

	half := n / 2
	s := &Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = cmplx.Abs(spec[k])
	}
	return s
}

// Peak returns the strongest bin above zero frequency.
func (s *Spectrum) Peak() (freq, power float64) {
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			power = s.Power[k]
			freq = s.Freqs[k]
		}
	}
	return freq, power
}

// Strouhal converts a shedding frequency to its dimensionless number for a
// body of the given diameter in a stream of the given speed.
func Strouhal(freq, diameter, velocity float64) float64 {
	if velocity == 0 {
		return 0
	}
	return freq * diameter / velocity
}
