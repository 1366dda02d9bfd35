package tonal

import (
	"github.com/RyanBlaney/sonido-shs/algorithms/common"
	"github.com/RyanBlaney/sonido-shs/algorithms/spectral"
)

// CandidateSet is the fixed-capacity, per-frame list of F0 candidates.
// The three slices run in parallel and always have the same length. Slots
// past the returned candidate count hold zero scores.
type CandidateSet struct {
	Frequency []float64 `json:"frequency"` // Candidate F0 (Hz)
	Score     []float64 `json:"score"`     // Interpolated sum spectrum score
	Voicing   []float64 `json:"voicing"`   // Voicing probability
}

// NewCandidateSet allocates a candidate set with room for n candidates
func NewCandidateSet(n int) *CandidateSet {
	n = max(n, 1)
	return &CandidateSet{
		Frequency: make([]float64, n),
		Score:     make([]float64, n),
		Voicing:   make([]float64, n),
	}
}

// Cap returns the number of candidate slots
func (cs *CandidateSet) Cap() int {
	return len(cs.Score)
}

// Reset zeroes every slot
func (cs *CandidateSet) Reset() {
	clear(cs.Frequency)
	clear(cs.Score)
	clear(cs.Voicing)
}

// Swap exchanges the (frequency, voicing, score) triples of slots i and j
func (cs *CandidateSet) Swap(i, j int) {
	cs.Frequency[i], cs.Frequency[j] = cs.Frequency[j], cs.Frequency[i]
	cs.Voicing[i], cs.Voicing[j] = cs.Voicing[j], cs.Voicing[i]
	cs.Score[i], cs.Score[j] = cs.Score[j], cs.Score[i]
}

// Candidates returns the first n slots as PitchCandidate values
func (cs *CandidateSet) Candidates(n int) []PitchCandidate {
	n = min(max(n, 0), cs.Cap())
	out := make([]PitchCandidate, n)
	for i := 0; i < n; i++ {
		out[i] = PitchCandidate{
			Frequency:  cs.Frequency[i],
			Confidence: cs.Voicing[i],
			Salience:   cs.Score[i],
		}
	}
	return out
}

// interpolatePeaks replaces the bin index stored in each of the first n
// frequency slots by the vertex of the parabola through the neighbouring
// sum spectrum values, in Hz, and the score by the vertex height.
// Bins must be interior (1..len(ss)-2).
func interpolatePeaks(cs *CandidateSet, n int, ss []float64, scale *spectral.LogScale) {
	for i := 0; i < n; i++ {
		bin := cs.Frequency[i]
		j := int(bin)

		f0 := scale.BinToLog(bin - 1.0)
		f1 := scale.BinToLog(bin)
		f2 := scale.BinToLog(bin + 1.0)

		fx, sc := common.QuadFrom3Points(f0, ss[j-1], f1, ss[j], f2, ss[j+1])

		cs.Frequency[i] = scale.LogToHz(fx)
		cs.Score[i] = sc
	}
}

// VoicingProbability rates how far score stands out of the frame mean:
// 1 - mean/score when score is positive and above the mean, else 0.
func VoicingProbability(score, mean float64) float64 {
	if score > 0.0 && score > mean {
		return 1.0 - mean/score
	}
	return 0.0
}

func estimateVoicing(cs *CandidateSet, n int, mean float64) {
	for i := 0; i < n; i++ {
		cs.Voicing[i] = VoicingProbability(cs.Score[i], mean)
	}
}

// correctOctave moves a lower-frequency candidate to the front when it is
// voiced enough and strong enough relative to the current front candidate.
// Candidates are visited in order and every qualifying one is swapped with
// slot 0, so a later swap can undo or replace an earlier one.
func correctOctave(cs *CandidateSet, n int, voicingCutoff float64, numHarmonics int, compression float64) {
	ratio := 1.0 / (float64(numHarmonics-1) * compression)

	for i := 0; i < n; i++ {
		lower := cs.Frequency[i] < cs.Frequency[0] && cs.Frequency[i] > 0
		voiced := cs.Voicing[i] > voicingCutoff || cs.Voicing[i] >= 0.9*voicingCutoff
		strong := cs.Score[i] > ratio*cs.Score[0]
		if lower && voiced && strong {
			cs.Swap(0, i)
		}
	}
}
