package harmonic

import (
	"github.com/RyanBlaney/sonido-shs/algorithms/common"
)

// PeakSelection chooses how local maxima of a sum spectrum are admitted
// into the fixed-size candidate list
type PeakSelection int

const (
	// PeakSelectionLegacy admits a peak only while it beats the current
	// front candidate and always inserts at the front. Once the global
	// maximum has been seen no later peak is added, so the list can stay
	// short.
	PeakSelectionLegacy PeakSelection = iota

	// PeakSelectionGreedy admits every peak and keeps the list ranked by
	// descending score.
	PeakSelectionGreedy
)

// String returns the selection name
func (ps PeakSelection) String() string {
	switch ps {
	case PeakSelectionLegacy:
		return "legacy"
	case PeakSelectionGreedy:
		return "greedy"
	default:
		return "unknown"
	}
}

// SelectFunc scans ss for peaks and fills bins/scores, which share a
// capacity and must start zeroed. It returns the number of filled slots.
type SelectFunc func(ss []float64, bins, scores []float64) int

// Func returns the selection function of the strategy
func (ps PeakSelection) Func() SelectFunc {
	if ps == PeakSelectionGreedy {
		return SelectGreedy
	}
	return SelectLegacy
}

// isPeak reports a strict local maximum at interior bin i
func isPeak(ss []float64, i int) bool {
	return ss[i-1] < ss[i] && ss[i] > ss[i+1]
}

// SelectGreedy inserts each peak before the first slot that is empty
// (score 0) or holds a strictly lower score. Slots behind it move down by
// one and the last one falls off when the list is full.
func SelectGreedy(ss []float64, bins, scores []float64) int {
	capacity := len(scores)
	count := 0

	for i := 1; i < len(ss)-1; i++ {
		if !isPeak(ss, i) {
			continue
		}

		for j := 0; j < capacity; j++ {
			if scores[j] == 0.0 || scores[j] < ss[i] {
				copy(scores[j+1:], scores[j:capacity-1])
				copy(bins[j+1:], bins[j:capacity-1])
				bins[j] = float64(i)
				scores[j] = ss[i]
				if count < capacity {
					count++
				}
				break
			}
		}
	}

	return count
}

// SelectLegacy admits a peak when the front slot is still empty or the
// peak scores higher than it, and pushes it onto the front.
func SelectLegacy(ss []float64, bins, scores []float64) int {
	capacity := len(scores)
	count := 0
	if capacity == 0 {
		return 0
	}

	for i := 1; i < len(ss)-1; i++ {
		if !isPeak(ss, i) || (ss[i] <= scores[0] && scores[0] != 0.0) {
			continue
		}

		copy(scores[1:], scores[:capacity-1])
		copy(bins[1:], bins[:capacity-1])
		bins[0] = float64(i)
		scores[0] = ss[i]
		if count < capacity {
			count++
		}
	}

	return count
}

// PeakCandidates holds the raw output of peak selection on one frame
type PeakCandidates struct {
	Bins      []float64 // Bin index of each candidate, stored as float64
	Scores    []float64 // Sum spectrum value at the bin
	Count     int       // Number of filled slots
	MeanScore float64   // Mean over all bins of the sum spectrum
}

// PeakPicker runs a selection strategy into reusable candidate arrays
type PeakPicker struct {
	selection PeakSelection
	selectFn  SelectFunc
	bins      []float64
	scores    []float64
}

// NewPeakPicker creates a picker that keeps up to capacity candidates
func NewPeakPicker(selection PeakSelection, capacity int) *PeakPicker {
	capacity = max(capacity, 1)
	return &PeakPicker{
		selection: selection,
		selectFn:  selection.Func(),
		bins:      make([]float64, capacity),
		scores:    make([]float64, capacity),
	}
}

// Selection returns the configured strategy
func (pp *PeakPicker) Selection() PeakSelection {
	return pp.selection
}

// Pick selects candidates from ss. The returned slices alias the picker's
// buffers and are overwritten by the next call.
func (pp *PeakPicker) Pick(ss []float64) PeakCandidates {
	clear(pp.bins)
	clear(pp.scores)

	count := pp.selectFn(ss, pp.bins, pp.scores)

	return PeakCandidates{
		Bins:      pp.bins,
		Scores:    pp.scores,
		Count:     count,
		MeanScore: common.Mean(ss),
	}
}
