package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// FFT provides Fast Fourier Transform functionality for producing test and
// reference spectra. It is not part of the pitch detection pipeline, which
// takes log-frequency spectra built upstream.
type FFT struct {
	applyWindow bool
}

// NewFFT creates an FFT calculator that transforms frames as given
func NewFFT() *FFT {
	return &FFT{}
}

// NewHannFFT creates an FFT calculator that applies a Hann window first
func NewHannFFT() *FFT {
	return &FFT{applyWindow: true}
}

// Compute computes the Fast Fourier Transform of x using mjibson/go-dsp,
// which handles non-power-of-2 sizes.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	if f.applyWindow {
		win := window.Hann(len(x))
		windowed := make([]float64, len(x))
		for i, v := range x {
			windowed[i] = v * win[i]
		}
		x = windowed
	}

	return fft.FFTReal(x)
}

// Magnitude returns the len(x)/2+1 magnitudes of the non-negative
// frequency bins of x
func (f *FFT) Magnitude(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	bins := f.Compute(x)
	mags := make([]float64, len(x)/2+1)
	for i := range mags {
		mags[i] = cmplx.Abs(bins[i])
	}
	return mags
}
