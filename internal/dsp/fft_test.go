package dsp

import (
	"math"
	"testing"
)

// naiveSpectrum evaluates the DFT definition directly in O(N²) and returns
// the squared magnitudes of bins 0..n/2 inclusive, matching the convention
// of Analyzer.Process.
func naiveSpectrum(xs []float64, win Window) []float64 {
	n := len(xs)
	out := make([]float64, n/2+1)
	for k := range out {
		factor := 2 * math.Pi * float64(k) / float64(n)
		var re, im float64
		for i, x := range xs {
			x *= win(i, n)
			re = math.FMA(x, math.Cos(factor*float64(i)), re)
			im = math.FMA(x, -math.Sin(factor*float64(i)), im)
		}
		out[k] = re*re + im*im
	}
	return out
}

func rectWindow(i, n int) float64 { return 1 }

// generateTestSignal builds a 4096-sample superposition of sinusoids with
// amplitude 1 at 5 cycles, 2 at 31, 5 at 53, and 7 at 541 cycles over the
// buffer.
func generateTestSignal() []float64 {
	const n = 4096
	xs := make([]float64, n)
	for i := range xs {
		t := float64(i) / n
		xs[i] = 0 +
			1*math.Sin(t*5*2*math.Pi) +
			2*math.Cos(t*31*2*math.Pi) +
			5*math.Sin(t*53*2*math.Pi) +
			7*math.Sin(t*541*2*math.Pi)
	}
	return xs
}

func TestNaiveSpectrumFindsKnownPeaks(t *testing.T) {
	xs := generateTestSignal()
	result := naiveSpectrum(xs, rectWindow)
	const epsilon = 2e-4

	peaks := map[int]float64{5: 1, 31: 2, 53: 5, 541: 7}
	for i, v := range result {
		// The squared norms scale with the buffer length. Only half of the
		// coefficients are retained, which misses half of the mass, hence
		// the factor 2.
		a := 2 * math.Sqrt(v) / float64(len(xs))
		if want, ok := peaks[i]; ok {
			if math.Abs(a-want) >= epsilon {
				t.Errorf("bin %d: amplitude %v, want %v", i, a, want)
			}
		} else if i != len(result)-1 && a >= epsilon {
			t.Errorf("unexpected peak of %v at bin %d", a, i)
		}
	}
}

func TestFastSpectrumMatchesNaive(t *testing.T) {
	xs := generateTestSignal()
	naive := naiveSpectrum(xs, Hann)
	fast := Spectrum(xs, Hann)

	if len(fast) != len(naive) {
		t.Fatalf("Spectrum returned %d bins, want %d", len(fast), len(naive))
	}
	for i := range naive {
		diff := math.Abs(math.Sqrt(naive[i])-math.Sqrt(fast[i])) / float64(len(xs))
		if diff >= 2e-4 {
			t.Errorf("bin %d: naive %v vs fast %v", i, naive[i], fast[i])
		}
	}
}

func TestTransformOfRealInputIsConjugateSymmetric(t *testing.T) {
	xs := generateTestSignal()
	buf := make([]Complex, len(xs))
	for i, x := range xs {
		buf[i] = Complex{Re: x * Hann(i, len(xs))}
	}
	Transform(buf, make([]Complex, len(xs)/2))

	n := len(buf)
	for k := 1; k < n/2; k++ {
		mirror := buf[n-k]
		re := math.Abs(buf[k].Re-mirror.Re) / float64(n)
		im := math.Abs(buf[k].Im+mirror.Im) / float64(n)
		if re >= 1e-9 || im >= 1e-9 {
			t.Fatalf("bin %d is not the conjugate of bin %d: %+v vs %+v", k, n-k, buf[k], mirror)
		}
	}

	// The half-spectrum must be exactly the lower bins of a full transform.
	spec := Spectrum(xs, Hann)
	for k, v := range spec {
		full := buf[k].Re*buf[k].Re + buf[k].Im*buf[k].Im
		if v != full {
			t.Fatalf("half-spectrum bin %d = %v, full transform has %v", k, v, full)
		}
	}
}

func TestTransformIdentityBelowLengthTwo(t *testing.T) {
	one := []Complex{{Re: 3, Im: -2}}
	Transform(one, nil)
	if one[0] != (Complex{Re: 3, Im: -2}) {
		t.Fatalf("length-1 transform modified its input: %+v", one[0])
	}
	Transform(nil, nil)
}

func TestTransformPanicsOnOddLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for odd length")
		}
	}()
	Transform(make([]Complex, 6), make([]Complex, 3))
}

func TestTransformPanicsOnShortScratch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for short scratch buffer")
		}
	}()
	Transform(make([]Complex, 8), make([]Complex, 3))
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 4096} {
		if !IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = false", n)
		}
	}
	for _, n := range []int{0, -4, 3, 6, 4097} {
		if IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = true", n)
		}
	}
}
