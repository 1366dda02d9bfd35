package tonal

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-shs/algorithms/filters"
	"github.com/RyanBlaney/sonido-shs/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-shs/algorithms/spectral"
	"github.com/RyanBlaney/sonido-shs/logging"
)

var (
	// ErrAxisNotConfigured is returned for frames processed before a valid
	// log-frequency axis was configured
	ErrAxisNotConfigured = spectral.ErrAxisNotConfigured

	// ErrFrameLength is returned for frames whose length differs from the
	// configured axis
	ErrFrameLength = errors.New("frame length does not match configured axis")

	// ErrInvalidParams is wrapped by ShsParams.Validate
	ErrInvalidParams = errors.New("invalid shs parameters")
)

// PitchCandidate represents a potential pitch with confidence
type PitchCandidate struct {
	Frequency  float64 `json:"frequency"`  // Frequency in Hz
	Confidence float64 `json:"confidence"` // Voicing probability
	Salience   float64 `json:"salience"`   // Sum spectrum score
}

// ShsParams contains parameters for subharmonic summation pitch detection
type ShsParams struct {
	NHarmonics        int     `json:"n_harmonics"`        // Highest harmonic order summed (feasible: 5-15)
	CompressionFactor float64 `json:"compression_factor"` // Weight ratio between successive harmonics
	VoicingCutoff     float64 `json:"voicing_cutoff"`     // Voicing probability threshold

	OctaveCorrection bool `json:"octave_correction"` // Prefer a voiced lower candidate (experimental)
	GreedyPeakAlgo   bool `json:"greedy_peak_algo"`  // Rank all peaks instead of the legacy front insertion

	ShsSpectrumOutput bool    `json:"shs_spectrum_output"` // Send the sum spectrum to the debug sink
	LfCut             float64 `json:"lf_cut"`              // Zero bins up to this frequency (Hz), 0 = off

	NCandidates int `json:"n_candidates"` // Candidate slots per frame
}

// DefaultShsParams returns the parameters the detector uses by default
func DefaultShsParams() ShsParams {
	return ShsParams{
		NHarmonics:        15,
		CompressionFactor: 0.85,
		VoicingCutoff:     0.70,
		OctaveCorrection:  false,
		GreedyPeakAlgo:    false,
		ShsSpectrumOutput: false,
		LfCut:             0.0,
		NCandidates:       3,
	}
}

// Validate checks parameter ranges
func (p ShsParams) Validate() error {
	if p.NHarmonics < 2 {
		return fmt.Errorf("%w: n_harmonics must be >= 2, got %d", ErrInvalidParams, p.NHarmonics)
	}
	if p.CompressionFactor <= 0 || p.CompressionFactor > 1 {
		return fmt.Errorf("%w: compression_factor must be in (0, 1], got %f", ErrInvalidParams, p.CompressionFactor)
	}
	if p.VoicingCutoff < 0 || p.VoicingCutoff > 1 {
		return fmt.Errorf("%w: voicing_cutoff must be in [0, 1], got %f", ErrInvalidParams, p.VoicingCutoff)
	}
	if p.NCandidates < 1 {
		return fmt.Errorf("%w: n_candidates must be >= 1, got %d", ErrInvalidParams, p.NCandidates)
	}
	return nil
}

// PeakSelection returns the peak selection strategy the params ask for
func (p ShsParams) PeakSelection() harmonic.PeakSelection {
	if p.GreedyPeakAlgo {
		return harmonic.PeakSelectionGreedy
	}
	return harmonic.PeakSelectionLegacy
}

// ShsResult is the per-frame output of Analyze
type ShsResult struct {
	Pitch     float64 `json:"pitch"`      // Front candidate frequency (Hz), 0 when none
	Voicing   float64 `json:"voicing"`    // Front candidate voicing probability
	Score     float64 `json:"score"`      // Front candidate score
	Voiced    bool    `json:"voiced"`     // Voicing >= VoicingCutoff
	MeanScore float64 `json:"mean_score"` // Mean of the sum spectrum

	Candidates []PitchCandidate `json:"candidates"`

	Frame int `json:"frame"` // Frame counter since the last Reset
}

// ShsPitchDetector estimates F0 candidates from log-frequency magnitude
// spectra by subharmonic summation.
//
// References:
//   - Hermes, D.J. (1988). "Measurement of pitch by subharmonic summation"
//   - Eyben, F. et al. (2010). "openSMILE: the Munich versatile and fast
//     open-source audio feature extractor"
//
// Per frame: low cut, summation, optional debug output, peak picking,
// parabolic interpolation, voicing, optional octave correction.
//
// All buffers are allocated by Configure and reused for every frame, so a
// detector must not be used from several goroutines at once.
type ShsPitchDetector struct {
	params ShsParams

	// Axis dependent components, rebuilt by Configure
	scale  *spectral.LogScale
	lowCut *filters.LowCut
	shs    *harmonic.SubharmonicSummation
	picker *harmonic.PeakPicker

	// Internal buffers
	work      []float64
	debugVec  []float64
	meanScore float64

	debugSink DebugSink
	frame     int
	logger    logging.Logger
}

// NewShsPitchDetector creates a detector with default parameters. It must
// be configured with an axis before frames can be processed.
func NewShsPitchDetector() *ShsPitchDetector {
	return &ShsPitchDetector{
		params: DefaultShsParams(),
		logger: logging.WithFields(logging.Fields{
			"component": "shs_pitch_detector",
		}),
	}
}

// NewShsPitchDetectorWithParams creates a detector with custom parameters
func NewShsPitchDetectorWithParams(params ShsParams) (*ShsPitchDetector, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	pd := NewShsPitchDetector()
	pd.params = params
	return pd, nil
}

// SetLogger replaces the detector's logger
func (pd *ShsPitchDetector) SetLogger(logger logging.Logger) {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	pd.logger = logger
}

// SetDebugSink sets where sum spectra go when ShsSpectrumOutput is enabled
func (pd *ShsPitchDetector) SetDebugSink(sink DebugSink) {
	pd.debugSink = sink
}

// Configure (re)builds the axis and every buffer for n-bin spectra. The
// previous configuration is kept when it fails.
func (pd *ShsPitchDetector) Configure(meta spectral.LogScaleMeta, n int) error {
	scale, err := spectral.NewLogScale(meta, n)
	if err != nil {
		pd.logger.Error(err, "Aborting axis setup", logging.Fields{
			"n_octaves": meta.NOctaves,
			"bins":      n,
		})
		return err
	}

	if !scale.IsOctaveScale() {
		pd.logger.Warn("Log base is not 2.0 (no octave scale spectrum), behaviour is untested", logging.Fields{
			"base":     scale.Base,
			"fmin":     meta.FMin,
			"fmin_log": meta.FMinLog,
		})
	}

	return pd.configureScale(scale)
}

// ConfigureScale installs an already derived axis. The axis is validated
// and copied, so later changes to scale do not affect the detector.
func (pd *ShsPitchDetector) ConfigureScale(scale *spectral.LogScale) error {
	if err := scale.Validate(); err != nil {
		pd.logger.Error(err, "Rejecting log-frequency axis")
		return err
	}

	axis := *scale
	if !axis.IsOctaveScale() {
		pd.logger.Warn("Log base is not 2.0 (no octave scale spectrum), behaviour is untested", logging.Fields{
			"base": axis.Base,
		})
	}
	return pd.configureScale(&axis)
}

func (pd *ShsPitchDetector) configureScale(scale *spectral.LogScale) error {
	if pd.scale.Equal(scale) && pd.shs != nil {
		return nil
	}

	shs, err := harmonic.NewSubharmonicSummation(scale.Bins, scale.PointsPerOctave,
		pd.params.NHarmonics, pd.params.CompressionFactor)
	if err != nil {
		return fmt.Errorf("failed to set up subharmonic summation: %w", err)
	}

	pd.scale = scale
	pd.shs = shs
	pd.lowCut = filters.NewLowCut(pd.params.LfCut, scale)
	pd.picker = harmonic.NewPeakPicker(pd.params.PeakSelection(), pd.params.NCandidates)
	pd.work = make([]float64, scale.Bins)
	pd.debugVec = nil

	pd.logger.Info("Configured log-frequency axis", logging.Fields{
		"bins":              scale.Bins,
		"base":              scale.Base,
		"points_per_octave": scale.PointsPerOctave,
		"octaves":           scale.OctaveCount,
		"peak_selection":    pd.params.PeakSelection().String(),
	})

	if pd.lowCut.Enabled() {
		pd.logger.Debug("Low frequency cut", logging.Fields{
			"lf_cut":     pd.params.LfCut,
			"cutoff_bin": pd.lowCut.CutoffBin(),
			"bins":       scale.Bins,
		})
	}

	return nil
}

// Configured reports whether an axis has been set up
func (pd *ShsPitchDetector) Configured() bool {
	return pd.scale != nil
}

// Scale returns the configured axis, nil before Configure
func (pd *ShsPitchDetector) Scale() *spectral.LogScale {
	return pd.scale
}

// DetectPitch fills out with the F0 candidates of one log-frequency
// magnitude spectrum and returns how many are valid (0..out.Cap()). Before
// a successful Configure it returns -1 and ErrAxisNotConfigured. frame is
// not modified.
func (pd *ShsPitchDetector) DetectPitch(frame []float64, out *CandidateSet) (int, error) {
	if pd.scale == nil {
		return -1, ErrAxisNotConfigured
	}
	if len(frame) != pd.scale.Bins {
		return 0, fmt.Errorf("%w: got %d bins, want %d", ErrFrameLength, len(frame), pd.scale.Bins)
	}
	if out == nil || out.Cap() < pd.params.NCandidates {
		return 0, fmt.Errorf("candidate set must hold %d candidates", pd.params.NCandidates)
	}

	copy(pd.work, frame)
	pd.lowCut.Apply(pd.work)

	ss, err := pd.shs.Compute(pd.work)
	if err != nil {
		return 0, err
	}
	pd.emitDebugSpectrum(ss)

	peaks := pd.picker.Pick(ss)
	pd.meanScore = peaks.MeanScore

	out.Reset()
	nCand := peaks.Count
	copy(out.Frequency, peaks.Bins[:nCand])
	copy(out.Score, peaks.Scores[:nCand])

	interpolatePeaks(out, nCand, ss, pd.scale)
	estimateVoicing(out, nCand, peaks.MeanScore)

	if pd.params.OctaveCorrection {
		correctOctave(out, nCand, pd.params.VoicingCutoff, pd.params.NHarmonics, pd.params.CompressionFactor)
	}

	pd.frame++
	return nCand, nil
}

// Analyze runs DetectPitch on a fresh candidate set and summarises the
// front candidate
func (pd *ShsPitchDetector) Analyze(frame []float64) (*ShsResult, error) {
	frameIdx := pd.frame
	cands := NewCandidateSet(pd.params.NCandidates)

	n, err := pd.DetectPitch(frame, cands)
	if err != nil {
		return nil, err
	}

	result := &ShsResult{
		MeanScore:  pd.meanScore,
		Candidates: cands.Candidates(n),
		Frame:      frameIdx,
	}
	if n > 0 {
		result.Pitch = cands.Frequency[0]
		result.Voicing = cands.Voicing[0]
		result.Score = cands.Score[0]
		result.Voiced = cands.Voicing[0] >= pd.params.VoicingCutoff
	}

	return result, nil
}

// ProcessFrames analyzes a sequence of spectra in order
func (pd *ShsPitchDetector) ProcessFrames(frames [][]float64) ([]*ShsResult, error) {
	results := make([]*ShsResult, 0, len(frames))

	for i, frame := range frames {
		result, err := pd.Analyze(frame)
		if err != nil {
			return nil, fmt.Errorf("error processing frame %d: %w", i, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// emitDebugSpectrum copies ss into the reusable debug vector and hands it
// to the sink. Sink failures are logged and otherwise ignored.
func (pd *ShsPitchDetector) emitDebugSpectrum(ss []float64) {
	if !pd.params.ShsSpectrumOutput || pd.debugSink == nil {
		return
	}

	if pd.debugVec == nil {
		pd.debugVec = make([]float64, len(ss))
	}
	copy(pd.debugVec, ss)

	if err := pd.debugSink.WriteSpectrum(pd.frame, pd.debugVec); err != nil {
		pd.logger.Warn("Failed to write sum spectrum", logging.Fields{
			"frame": pd.frame,
			"error": err.Error(),
		})
	}
}

// MeanScore returns the sum spectrum mean of the last processed frame
func (pd *ShsPitchDetector) MeanScore() float64 {
	return pd.meanScore
}

// Reset clears the frame counter
func (pd *ShsPitchDetector) Reset() {
	pd.frame = 0
	pd.meanScore = 0.0
}

// GetParameters returns the current parameters
func (pd *ShsPitchDetector) GetParameters() ShsParams {
	return pd.params
}

// SetParameters replaces the parameters. A configured detector rebuilds its
// components for the current axis.
func (pd *ShsPitchDetector) SetParameters(params ShsParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	pd.params = params
	if pd.scale == nil {
		return nil
	}

	scale := pd.scale
	pd.scale = nil
	return pd.configureScale(scale)
}
