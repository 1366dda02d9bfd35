package spectral

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-shs/algorithms/common"
)

// ErrAxisNotConfigured is returned when the upstream metadata does not
// describe a log-frequency axis (octave count of zero). It is fatal: no
// frame may be processed against such an axis.
var ErrAxisNotConfigured = errors.New("log-frequency axis not configured")

// octaveBaseTolerance is how far a derived base may sit from 2.0 and still
// be treated as an octave scale
const octaveBaseTolerance = 0.00001

// LogScaleMeta is the metadata an upstream log-scale spectrum producer
// publishes with its frames.
type LogScaleMeta struct {
	FMin            float64 `json:"fmin"`              // Lowest frequency (Hz)
	FMax            float64 `json:"fmax"`              // Highest frequency (Hz), informational
	NOctaves        float64 `json:"n_octaves"`         // Octaves spanned; 0 = not a log scale
	PointsPerOctave float64 `json:"points_per_octave"` // Bins per octave
	FMinLog         float64 `json:"fmin_log"`          // Log-domain value of bin 0
	FMaxLog         float64 `json:"fmax_log"`          // Log-domain value of bin N-1
}

// OctaveScaleMeta describes a base-2 axis of n bins starting at fmin Hz.
func OctaveScaleMeta(fmin, pointsPerOctave float64, n int) LogScaleMeta {
	fminLog := math.Log2(fmin)
	fmaxLog := fminLog + float64(n-1)/pointsPerOctave
	return LogScaleMeta{
		FMin:            fmin,
		FMax:            math.Exp2(fmaxLog),
		NOctaves:        float64(n-1) / pointsPerOctave,
		PointsPerOctave: pointsPerOctave,
		FMinLog:         fminLog,
		FMaxLog:         fmaxLog,
	}
}

// LogScale maps bin indices of a log-frequency spectrum to frequencies.
// A LogScale is immutable; a new one is built whenever the upstream axis
// changes. Scales built by hand must pass Validate before use.
type LogScale struct {
	Base            float64
	FreqMinLog      float64
	FreqStepLog     float64
	PointsPerOctave float64
	OctaveCount     float64
	Bins            int
}

// NewLogScale derives the axis of an n-bin spectrum from its metadata
func NewLogScale(meta LogScaleMeta, n int) (*LogScale, error) {
	if meta.NOctaves == 0 {
		return nil, fmt.Errorf("cannot read a valid octave count from the input metadata, the input must be a log(2) scale spectrum: %w", ErrAxisNotConfigured)
	}
	if n < 3 {
		return nil, fmt.Errorf("log scale needs at least 3 bins, got %d", n)
	}
	if meta.FMin <= 0 || meta.FMinLog == 0 {
		return nil, fmt.Errorf("invalid log scale origin: fmin=%f fmin_log=%f", meta.FMin, meta.FMinLog)
	}
	if meta.PointsPerOctave <= 0 {
		return nil, fmt.Errorf("invalid points per octave: %f", meta.PointsPerOctave)
	}
	if meta.FMaxLog <= meta.FMinLog {
		return nil, fmt.Errorf("log axis must be increasing: fmin_log=%f fmax_log=%f", meta.FMinLog, meta.FMaxLog)
	}

	base := math.Exp(math.Log(meta.FMin) / meta.FMinLog)
	if common.NearlyEqual(base, 2.0, octaveBaseTolerance) {
		base = 2.0
	}

	return &LogScale{
		Base:            base,
		FreqMinLog:      meta.FMinLog,
		FreqStepLog:     (meta.FMaxLog - meta.FMinLog) / float64(n-1),
		PointsPerOctave: meta.PointsPerOctave,
		OctaveCount:     meta.NOctaves,
		Bins:            n,
	}, nil
}

// Validate checks an axis that was not built by NewLogScale. An octave
// count of zero reports ErrAxisNotConfigured.
func (ls *LogScale) Validate() error {
	if ls == nil || ls.OctaveCount == 0 {
		return ErrAxisNotConfigured
	}
	if ls.Bins < 3 {
		return fmt.Errorf("log scale needs at least 3 bins, got %d", ls.Bins)
	}
	if ls.Base <= 0 || ls.Base == 1 || math.IsNaN(ls.Base) || math.IsInf(ls.Base, 0) {
		return fmt.Errorf("invalid log base: %f", ls.Base)
	}
	if ls.PointsPerOctave <= 0 {
		return fmt.Errorf("invalid points per octave: %f", ls.PointsPerOctave)
	}
	if !(ls.FreqStepLog > 0) || math.IsInf(ls.FreqStepLog, 0) {
		return fmt.Errorf("invalid log step: %f", ls.FreqStepLog)
	}
	return nil
}

// IsOctaveScale reports whether the base is 2. NewLogScale snaps bases
// within tolerance of 2 to exactly 2.
// Other bases are usable but untested.
func (ls *LogScale) IsOctaveScale() bool {
	return ls.Base == 2.0
}

// BinToLog returns the log-domain abscissa of a (possibly fractional) bin
func (ls *LogScale) BinToLog(bin float64) float64 {
	return bin*ls.FreqStepLog + ls.FreqMinLog
}

// LogToHz converts a log-domain value to linear frequency
func (ls *LogScale) LogToHz(x float64) float64 {
	return math.Exp(x * math.Log(ls.Base))
}

// BinToHz converts a (possibly fractional) bin index to Hz
func (ls *LogScale) BinToHz(bin float64) float64 {
	return ls.LogToHz(ls.BinToLog(bin))
}

// HzToBin converts Hz to a fractional bin index
func (ls *LogScale) HzToBin(hz float64) float64 {
	return (math.Log(hz)/math.Log(ls.Base) - ls.FreqMinLog) / ls.FreqStepLog
}

// Equal reports whether two scales describe the same axis
func (ls *LogScale) Equal(other *LogScale) bool {
	if ls == nil || other == nil {
		return ls == other
	}
	return ls.Base == other.Base &&
		ls.FreqMinLog == other.FreqMinLog &&
		ls.FreqStepLog == other.FreqStepLog &&
		ls.PointsPerOctave == other.PointsPerOctave &&
		ls.OctaveCount == other.OctaveCount &&
		ls.Bins == other.Bins
}
