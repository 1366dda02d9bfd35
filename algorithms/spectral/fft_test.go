package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func sine(bin, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * float64(bin) * float64(i) / float64(n))
	}
	return x
}

func TestFFTMagnitudePeak(t *testing.T) {
	for _, f := range []*FFT{NewFFT(), NewHannFFT()} {
		mags := f.Magnitude(sine(37, 512))

		require.Len(t, mags, 257)
		assert.Equal(t, 37, floats.MaxIdx(mags))
	}
}

func TestFFTRectangularAmplitude(t *testing.T) {
	mags := NewFFT().Magnitude(sine(8, 64))

	// a unit sine on an exact bin has magnitude n/2
	assert.InDelta(t, 32.0, mags[8], 1e-9)
	assert.InDelta(t, 0.0, mags[3], 1e-9)
}

func TestFFTNonPowerOfTwo(t *testing.T) {
	mags := NewHannFFT().Magnitude(sine(10, 300))

	require.Len(t, mags, 151)
	assert.Equal(t, 10, floats.MaxIdx(mags))
}

func TestFFTEmpty(t *testing.T) {
	assert.Empty(t, NewFFT().Compute(nil))
	assert.Empty(t, NewFFT().Magnitude(nil))
}
