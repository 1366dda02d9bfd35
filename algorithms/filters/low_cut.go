package filters

import (
	"math"

	"github.com/RyanBlaney/sonido-shs/algorithms/spectral"
)

// LowCut removes low frequency content from a log-frequency magnitude
// spectrum by zeroing every bin at or below the bin of the cutoff.
//
// The cutoff is rounded up to a whole log-domain unit before it is mapped
// to a bin (ceil(log_base(cutoff))), so on an octave axis the zeroed region
// always ends on an octave boundary at or above the requested frequency.
type LowCut struct {
	cutoffFreq float64 // Cutoff in Hz, <= 0 disables the filter
	cutoffBin  int     // Last zeroed bin, -1 when nothing is zeroed
}

// NewLowCut creates a low cut for spectra on the given axis
func NewLowCut(cutoffFreq float64, scale *spectral.LogScale) *LowCut {
	lc := &LowCut{
		cutoffFreq: cutoffFreq,
		cutoffBin:  -1,
	}

	if cutoffFreq > 0 {
		logCut := math.Ceil(math.Log(cutoffFreq) / math.Log(scale.Base))
		bin := math.Floor((logCut - scale.FreqMinLog) / scale.FreqStepLog)
		switch {
		case bin < 0:
			lc.cutoffBin = -1
		case bin >= float64(scale.Bins):
			lc.cutoffBin = scale.Bins - 1
		default:
			lc.cutoffBin = int(bin)
		}
	}

	return lc
}

// Enabled reports whether the filter zeroes anything at all
func (lc *LowCut) Enabled() bool {
	return lc.cutoffBin >= 0
}

// CutoffFrequency returns the configured cutoff in Hz
func (lc *LowCut) CutoffFrequency() float64 {
	return lc.cutoffFreq
}

// CutoffBin returns the highest zeroed bin, or -1 when disabled
func (lc *LowCut) CutoffBin() int {
	return lc.cutoffBin
}

// Apply zeroes bins 0..CutoffBin() of spectrum in place and returns the
// number of bins zeroed.
func (lc *LowCut) Apply(spectrum []float64) int {
	if lc.cutoffBin < 0 {
		return 0
	}

	last := min(lc.cutoffBin, len(spectrum)-1)
	clear(spectrum[:last+1])
	return last + 1
}
