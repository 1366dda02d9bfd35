package tonal

import (
	"sync"
)

// DebugSink receives the subharmonic sum spectrum of every frame when
// ShsSpectrumOutput is enabled. ss is only valid during the call; sinks
// that keep it must copy. Frame is the detector's frame counter, which
// callers map to their own timestamps.
type DebugSink interface {
	WriteSpectrum(frame int, ss []float64) error
}

// DebugSinkFunc adapts a function to DebugSink
type DebugSinkFunc func(frame int, ss []float64) error

// WriteSpectrum calls f
func (f DebugSinkFunc) WriteSpectrum(frame int, ss []float64) error {
	return f(frame, ss)
}

// SpectrumRecorder is a DebugSink that keeps copies of the most recent
// spectra in memory, for visualisation and tests.
type SpectrumRecorder struct {
	mu      sync.Mutex
	limit   int
	frames  []int
	spectra [][]float64
}

// NewSpectrumRecorder keeps at most limit spectra (0 = unlimited)
func NewSpectrumRecorder(limit int) *SpectrumRecorder {
	return &SpectrumRecorder{limit: max(limit, 0)}
}

// WriteSpectrum stores a copy of ss
func (sr *SpectrumRecorder) WriteSpectrum(frame int, ss []float64) error {
	spectrum := make([]float64, len(ss))
	copy(spectrum, ss)

	sr.mu.Lock()
	defer sr.mu.Unlock()

	sr.frames = append(sr.frames, frame)
	sr.spectra = append(sr.spectra, spectrum)
	if sr.limit > 0 && len(sr.spectra) > sr.limit {
		drop := len(sr.spectra) - sr.limit
		sr.frames = sr.frames[drop:]
		sr.spectra = sr.spectra[drop:]
	}
	return nil
}

// Len returns the number of stored spectra
func (sr *SpectrumRecorder) Len() int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return len(sr.spectra)
}

// Spectrum returns the i-th stored spectrum and its frame number
func (sr *SpectrumRecorder) Spectrum(i int) (int, []float64) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return sr.frames[i], sr.spectra[i]
}

// Last returns the most recent spectrum, nil when empty
func (sr *SpectrumRecorder) Last() []float64 {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	if len(sr.spectra) == 0 {
		return nil
	}
	return sr.spectra[len(sr.spectra)-1]
}
