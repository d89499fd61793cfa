package dsp

// An Analyzer turns fixed-length real sample blocks into magnitude-squared
// spectra. It owns the complex work buffer, the scratch buffer, and the
// precomputed window coefficients, all reused across calls, so analyzing a
// block allocates only the returned spectrum.
type Analyzer struct {
	n       int
	weights []float64
	buf     []Complex
	scratch []Complex
}

// NewAnalyzer creates an analyzer for blocks of length n, which must be a
// power of two and at least 2.
func NewAnalyzer(n int, win Window) *Analyzer {
	if !IsPowerOfTwo(n) || n < 2 {
		panic("dsp: analyzer block length must be a power of two >= 2")
	}

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = win(i, n)
	}

	return &Analyzer{
		n:       n,
		weights: weights,
		buf:     make([]Complex, n),
		scratch: make([]Complex, n/2),
	}
}

// BlockLen returns the block length the analyzer was built for.
func (a *Analyzer) BlockLen() int { return a.n }

// Process windows block, transforms it, and returns the squared magnitudes
// of bins 0 (DC) through n/2 (Nyquist) inclusive. The transform of a real
// signal is conjugate symmetric, so the upper half of the output
// carries no independent information and is discarded; keeping the Nyquist
// bin makes the result n/2+1 values long.
//
// The returned slice is freshly allocated; block is not modified.
func (a *Analyzer) Process(block []float64) []float64 {
	if len(block) != a.n {
		panic("dsp: block length does not match analyzer")
	}

	for i, x := range block {
		a.buf[i] = Complex{Re: x * a.weights[i]}
	}
	Transform(a.buf, a.scratch)

	out := make([]float64, a.n/2+1)
	for i := range out {
		z := a.buf[i]
		out[i] = z.Re*z.Re + z.Im*z.Im
	}
	return out
}

// Spectrum is a convenience wrapper for one-off analysis of a single block.
func Spectrum(block []float64, win Window) []float64 {
	return NewAnalyzer(len(block), win).Process(block)
}
