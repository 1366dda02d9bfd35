package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogScaleOctaveAxis(t *testing.T) {
	meta := OctaveScaleMeta(25.0, 48, 200)

	ls, err := NewLogScale(meta, 200)
	require.NoError(t, err)

	assert.True(t, ls.IsOctaveScale())
	assert.Equal(t, 2.0, ls.Base)
	assert.Equal(t, 200, ls.Bins)
	assert.InDelta(t, 1.0/48.0, ls.FreqStepLog, 1e-12)
	assert.InDelta(t, 25.0, ls.BinToHz(0), 1e-9)
	assert.InDelta(t, 50.0, ls.BinToHz(48), 1e-9)
	assert.InDelta(t, meta.FMax, ls.BinToHz(199), 1e-6)
}

func TestLogScaleRoundTrip(t *testing.T) {
	ls, err := NewLogScale(OctaveScaleMeta(50.0, 24, 121), 121)
	require.NoError(t, err)

	for _, bin := range []float64{0, 0.5, 13.25, 60, 119.9} {
		assert.InDelta(t, bin, ls.HzToBin(ls.BinToHz(bin)), 1e-9)
	}
	assert.InDelta(t, math.Log2(ls.BinToHz(10)), ls.BinToLog(10), 1e-12)
}

func TestNewLogScaleRejectsUnconfiguredAxis(t *testing.T) {
	meta := OctaveScaleMeta(25.0, 48, 200)
	meta.NOctaves = 0

	ls, err := NewLogScale(meta, 200)

	assert.Nil(t, ls)
	assert.ErrorIs(t, err, ErrAxisNotConfigured)
}

func TestNewLogScaleRejectsBadMeta(t *testing.T) {
	tests := []struct {
		name string
		meta LogScaleMeta
		n    int
	}{
		{"too few bins", OctaveScaleMeta(25.0, 48, 200), 2},
		{"zero fmin", LogScaleMeta{FMin: 0, NOctaves: 4, PointsPerOctave: 48, FMinLog: 4, FMaxLog: 8}, 200},
		{"zero points per octave", LogScaleMeta{FMin: 16, NOctaves: 4, PointsPerOctave: 0, FMinLog: 4, FMaxLog: 8}, 200},
		{"flat axis", LogScaleMeta{FMin: 16, NOctaves: 4, PointsPerOctave: 48, FMinLog: 4, FMaxLog: 4}, 200},
		{"decreasing axis", LogScaleMeta{FMin: 16, NOctaves: 4, PointsPerOctave: 48, FMinLog: 4, FMaxLog: 3}, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLogScale(tt.meta, tt.n)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, ErrAxisNotConfigured)
		})
	}
}

func TestNewLogScaleNonOctaveBase(t *testing.T) {
	fminLog := math.Log(100.0) / math.Log(3.0)
	meta := LogScaleMeta{
		FMin:            100.0,
		NOctaves:        3,
		PointsPerOctave: 20,
		FMinLog:         fminLog,
		FMaxLog:         fminLog + 3,
	}

	ls, err := NewLogScale(meta, 61)
	require.NoError(t, err)

	assert.False(t, ls.IsOctaveScale())
	assert.InDelta(t, 3.0, ls.Base, 1e-9)
	assert.InDelta(t, 100.0, ls.BinToHz(0), 1e-6)
	assert.InDelta(t, 300.0, ls.BinToHz(20), 1e-6)
}

func TestLogScaleEqual(t *testing.T) {
	a, err := NewLogScale(OctaveScaleMeta(25.0, 48, 200), 200)
	require.NoError(t, err)
	b, err := NewLogScale(OctaveScaleMeta(25.0, 48, 200), 200)
	require.NoError(t, err)
	c, err := NewLogScale(OctaveScaleMeta(25.0, 48, 201), 201)
	require.NoError(t, err)

	var none *LogScale
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, none.Equal(a))
	assert.True(t, none.Equal(nil))
}

func TestLiteralLogScaleMatchesDerived(t *testing.T) {
	derived, err := NewLogScale(OctaveScaleMeta(25.0, 48, 200), 200)
	require.NoError(t, err)

	literal := &LogScale{
		Base:            derived.Base,
		FreqMinLog:      derived.FreqMinLog,
		FreqStepLog:     derived.FreqStepLog,
		PointsPerOctave: derived.PointsPerOctave,
		OctaveCount:     derived.OctaveCount,
		Bins:            derived.Bins,
	}

	require.NoError(t, literal.Validate())
	assert.True(t, literal.Equal(derived))
	assert.True(t, literal.IsOctaveScale())
	for _, bin := range []float64{0, 12.5, 48, 199} {
		assert.Equal(t, derived.BinToHz(bin), literal.BinToHz(bin))
	}
	assert.Equal(t, derived.HzToBin(220), literal.HzToBin(220))
}

func TestLogScaleValidate(t *testing.T) {
	var unset *LogScale
	assert.ErrorIs(t, unset.Validate(), ErrAxisNotConfigured)
	assert.ErrorIs(t, (&LogScale{Base: 2, FreqStepLog: 0.1, PointsPerOctave: 10, Bins: 10}).Validate(), ErrAxisNotConfigured)
	assert.Error(t, (&LogScale{Base: 2, FreqStepLog: -0.1, PointsPerOctave: 10, OctaveCount: 1, Bins: 10}).Validate())
	assert.NoError(t, (&LogScale{Base: 2, FreqStepLog: 0.1, PointsPerOctave: 10, OctaveCount: 0.9, Bins: 10}).Validate())
}
