// Package testutil provides synthetic spectra and assertion helpers for
// the pitch detection tests.
package testutil

import (
	"math"

	"github.com/RyanBlaney/sonido-shs/algorithms/spectral"
)

// HarmonicTone synthesizes n samples of a tone at f0 with the given number
// of harmonics, harmonic k having amplitude 1/k.
func HarmonicTone(f0 float64, harmonics int, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for k := 1; k <= harmonics; k++ {
		fk := f0 * float64(k)
		if fk >= sampleRate/2 {
			break
		}
		amp := 1.0 / float64(k)
		w := 2 * math.Pi * fk / sampleRate
		for i := range out {
			out[i] += amp * math.Sin(w*float64(i))
		}
	}
	return out
}

// MagnitudeSpectrum returns the Hann-windowed magnitude spectrum
// (len(signal)/2+1 bins) of signal.
func MagnitudeSpectrum(signal []float64) []float64 {
	return spectral.NewHannFFT().Magnitude(signal)
}

// LogSpectrum resamples the magnitude spectrum of signal onto n
// log-frequency bins. binToHz maps a bin index to its centre frequency;
// linear-frequency magnitudes are linearly interpolated at that frequency.
func LogSpectrum(signal []float64, sampleRate float64, n int, binToHz func(bin float64) float64) []float64 {
	mags := MagnitudeSpectrum(signal)
	binWidth := sampleRate / float64(len(signal))

	out := make([]float64, n)
	for b := range out {
		pos := binToHz(float64(b)) / binWidth
		i := int(math.Floor(pos))
		if i < 0 || i >= len(mags)-1 {
			continue
		}
		frac := pos - float64(i)
		out[b] = mags[i]*(1-frac) + mags[i+1]*frac
	}
	return out
}

// ImpulseSpectrum returns n zero bins with unit impulses at the given bins
func ImpulseSpectrum(n int, bins ...int) []float64 {
	out := make([]float64, n)
	for _, b := range bins {
		out[b] = 1.0
	}
	return out
}
