// Package spectrogram accumulates decoded audio samples, slices them into
// overlapping analysis windows, and stores the resulting spectra as an
// append-only time-ordered sequence that a renderer samples from.
package spectrogram

import (
	"fmt"
	"sync"

	"github.com/olivier-w/grater/internal/dsp"
)

// Default analysis geometry: 8192-sample windows advancing by 4096, so
// consecutive windows overlap by half.
const (
	DefaultWindowLen = 8192
	DefaultHop       = 4096
)

// Builder grows a buffer of decoded samples and emits one spectrum per full
// analysis window. Windows overlap: after each emitted spectrum only `hop`
// leading samples are dropped, not a full window.
//
// One goroutine appends; any number may read Count and At concurrently.
// Spectra are appended only after they are fully computed and are never
// mutated afterwards.
type Builder struct {
	windowLen int
	hop       int
	analyzer  *dsp.Analyzer

	mu      sync.RWMutex
	pending []float64
	spectra [][]float64
}

// NewBuilder creates a builder emitting spectra of windowLen/2+1 bins.
// windowLen must be a power of two and hop must be in (0, windowLen).
func NewBuilder(windowLen, hop int, win dsp.Window) *Builder {
	if !dsp.IsPowerOfTwo(windowLen) || windowLen < 2 {
		panic("spectrogram: window length must be a power of two >= 2")
	}
	if hop <= 0 || hop >= windowLen {
		panic("spectrogram: hop must be positive and smaller than the window length")
	}
	return &Builder{
		windowLen: windowLen,
		hop:       hop,
		analyzer:  dsp.NewAnalyzer(windowLen, win),
	}
}

// WindowLen returns the analysis window length in samples.
func (b *Builder) WindowLen() int { return b.windowLen }

// Hop returns the number of samples between consecutive window starts.
func (b *Builder) Hop() int { return b.hop }

// Append adds decoded samples and analyzes every window they complete.
// It returns the number of spectra emitted, which may be zero (still
// accumulating) or more than one (a large push completing several windows).
func (b *Builder) Append(samples []float64) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, samples...)
	emitted := 0
	for len(b.pending) >= b.windowLen {
		b.spectra = append(b.spectra, b.analyzer.Process(b.pending[:b.windowLen]))
		b.pending = b.pending[:copy(b.pending, b.pending[b.hop:])]
		emitted++
	}
	return emitted
}

// Flush pads any trailing partial window with silence and analyzes it.
// Without the padding, trailing audio shorter than one window would be
// dropped. Call it once the sample source is exhausted; it reports whether
// a final spectrum was emitted.
func (b *Builder) Flush() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) == 0 {
		return false
	}
	block := make([]float64, b.windowLen)
	copy(block, b.pending)
	b.spectra = append(b.spectra, b.analyzer.Process(block))
	b.pending = b.pending[:0]
	return true
}

// Count returns the number of spectra emitted so far. It only ever grows.
func (b *Builder) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.spectra)
}

// At returns spectrum i, from oldest to newest. Spectrum i was computed from
// the window starting at sample i*hop. The returned slice must not be
// modified. Requesting an index at or beyond Count is a caller bug and
// panics rather than returning stale or zeroed data.
func (b *Builder) At(i int) []float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.spectra) {
		panic(fmt.Sprintf("spectrogram: spectrum index %d out of range [0,%d)", i, len(b.spectra)))
	}
	return b.spectra[i]
}

// Snapshot returns the current sequence of spectra. The returned slice is a
// stable view: later appends do not show up in it, and the spectra it holds
// are immutable.
func (b *Builder) Snapshot() [][]float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.spectra[:len(b.spectra):len(b.spectra)]
}
