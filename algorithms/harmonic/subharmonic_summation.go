package harmonic

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-shs/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// SubharmonicSummation builds the subharmonic sum spectrum of a
// log-frequency magnitude spectrum.
//
// On a log axis, dividing a frequency by the harmonic order h is a shift of
// pointsPerOctave*log2(h) bins towards the origin. Each harmonic's shifted
// copy is added onto the spectrum with weight compression^(h-1), so the bin
// of a fundamental collects the energy of all its harmonics while the
// growing compression keeps sub-octaves from winning.
//
// References:
//   - Hermes, D.J. (1988). "Measurement of pitch by subharmonic summation"
//
// The summation buffer is owned by the instance and overwritten by every
// call to Compute; an instance must not be shared between goroutines.
type SubharmonicSummation struct {
	numHarmonics int
	compression  float64
	shifts       []int     // Bin shift of harmonic order h at index h-2
	weights      []float64 // compression^(h-1) at index h-2
	ss           []float64
}

// NewSubharmonicSummation creates an engine for n-bin spectra with the
// given number of points per octave.
func NewSubharmonicSummation(n int, pointsPerOctave float64, numHarmonics int, compression float64) (*SubharmonicSummation, error) {
	if n <= 0 {
		return nil, fmt.Errorf("spectrum length must be positive, got %d", n)
	}
	if numHarmonics < 2 {
		return nil, fmt.Errorf("need at least 2 harmonics, got %d", numHarmonics)
	}
	if compression <= 0 || compression > 1 {
		return nil, fmt.Errorf("compression factor must be in (0, 1], got %f", compression)
	}

	shs := &SubharmonicSummation{
		numHarmonics: numHarmonics,
		compression:  compression,
		shifts:       make([]int, numHarmonics-1),
		weights:      make([]float64, numHarmonics-1),
		ss:           make([]float64, n),
	}

	scale := compression
	for h := 2; h <= numHarmonics; h++ {
		shs.shifts[h-2] = int(math.Floor(pointsPerOctave * math.Log2(float64(h))))
		shs.weights[h-2] = scale
		scale *= compression
	}

	return shs, nil
}

// Compute sums the harmonic-shifted copies of spectrum into the internal
// buffer and returns it. The returned slice is valid until the next call.
func (shs *SubharmonicSummation) Compute(spectrum []float64) ([]float64, error) {
	n := len(shs.ss)
	if len(spectrum) != n {
		return nil, fmt.Errorf("spectrum length (%d) doesn't match summation length (%d)", len(spectrum), n)
	}

	copy(shs.ss, spectrum)

	for k, shift := range shs.shifts {
		if shift >= n {
			continue
		}
		// ss[j-shift] += spectrum[j]*w for j in [shift, n)
		floats.AddScaled(shs.ss[:n-shift], shs.weights[k], spectrum[shift:])
	}

	// Dividing by the harmonic count on top of the compression weights is
	// not needed for peak picking, but scores and voicing depend on it.
	norm := float64(shs.numHarmonics)
	for j := range shs.ss {
		shs.ss[j] /= norm
	}
	common.ClampNegative(shs.ss)

	return shs.ss, nil
}

// Spectrum returns the buffer filled by the last Compute call
func (shs *SubharmonicSummation) Spectrum() []float64 {
	return shs.ss
}

// Shift returns the bin shift used for the given harmonic order (h >= 2)
func (shs *SubharmonicSummation) Shift(h int) int {
	if h < 2 || h > shs.numHarmonics {
		return 0
	}
	return shs.shifts[h-2]
}

// Weight returns the compression weight applied to harmonic order h (h >= 2)
func (shs *SubharmonicSummation) Weight(h int) float64 {
	if h < 2 || h > shs.numHarmonics {
		return 0.0
	}
	return shs.weights[h-2]
}

// NumHarmonics returns the highest harmonic order summed
func (shs *SubharmonicSummation) NumHarmonics() int {
	return shs.numHarmonics
}

// Len returns the spectrum length the engine was built for
func (shs *SubharmonicSummation) Len() int {
	return len(shs.ss)
}
