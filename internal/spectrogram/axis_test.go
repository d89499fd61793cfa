package spectrogram

import (
	"math"
	"testing"

	"github.com/olivier-w/grater/internal/dsp"
)

func TestMapAxisEndpoints(t *testing.T) {
	const min, max = 10.0, 22050.0
	if got := MapAxis(0, min, max); got != min {
		t.Fatalf("MapAxis(0) = %v, want %v", got, min)
	}
	if got := MapAxis(1, min, max); got != max {
		t.Fatalf("MapAxis(1) = %v, want %v", got, max)
	}
}

func TestMapAxisIsMonotonic(t *testing.T) {
	const min, max = 5.0, 4096.0
	prev := MapAxis(0, min, max)
	for i := 1; i <= 1000; i++ {
		v := MapAxis(float64(i)/1000, min, max)
		if v <= prev {
			t.Fatalf("MapAxis not increasing at t=%v: %v -> %v", float64(i)/1000, prev, v)
		}
		prev = v
	}
}

func TestMapAxisSitsBetweenLogAndLinear(t *testing.T) {
	const min, max = 2.0, 1024.0
	for i := 1; i < 100; i++ {
		tt := float64(i) / 100
		vLog := math.Exp2(math.Log2(min) + tt*(math.Log2(max)-math.Log2(min)))
		vLin := min + tt*(max-min)
		v := MapAxis(tt, min, max)
		if v < vLog-1e-9 || v > vLin+1e-9 {
			t.Fatalf("MapAxis(%v) = %v outside [log %v, lin %v]", tt, v, vLog, vLin)
		}
	}
}

func testSampler(t *testing.T) Sampler {
	t.Helper()
	const windowLen, hop = 256, 128
	b := NewBuilder(windowLen, hop, dsp.Hann)
	b.Append(sineSamples(windowLen*8, 200))
	return NewSampler(b)
}

func TestIntensityStaysInUnitInterval(t *testing.T) {
	s := testSampler(t)
	const width, height = 37, 23
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := s.Intensity(x, y, width, height)
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("Intensity(%d, %d) = %v", x, y, v)
			}
		}
	}
}

func TestIntensityIsIdempotent(t *testing.T) {
	s := testSampler(t)
	const width, height = 64, 48
	for _, p := range [][2]int{{0, 0}, {31, 17}, {63, 47}, {10, 0}, {0, 40}} {
		a := s.Intensity(p[0], p[1], width, height)
		b := s.Intensity(p[0], p[1], width, height)
		if a != b {
			t.Fatalf("Intensity(%d, %d) not idempotent: %v vs %v", p[0], p[1], a, b)
		}
	}
}

func TestIntensityOfEmptySpectrogramIsZero(t *testing.T) {
	b := NewBuilder(256, 128, dsp.Hann)
	s := NewSampler(b)
	if v := s.Intensity(3, 4, 10, 10); v != 0 {
		t.Fatalf("Intensity on empty spectrogram = %v, want 0", v)
	}
}

func TestIntensityIgnoresLaterAppends(t *testing.T) {
	const windowLen, hop = 256, 128
	b := NewBuilder(windowLen, hop, dsp.Hann)
	b.Append(sineSamples(windowLen*4, 60))
	s := NewSampler(b)

	before := s.Intensity(5, 5, 20, 20)
	b.Append(sineSamples(windowLen*4, 60))
	after := s.Intensity(5, 5, 20, 20)

	if before != after {
		t.Fatalf("sampler saw a later append: %v vs %v", before, after)
	}
}

func TestIntensityColumnWeightsCoverAdjacentColumns(t *testing.T) {
	// A spectrogram of identical spectra must render as a constant row:
	// if the overlap weighting double-counted or left gaps, columns would
	// differ.
	const windowLen, hop = 256, 64
	b := NewBuilder(windowLen, hop, dsp.Hann)

	// The hop advances the 20-cycle sine by a whole number of periods, so
	// every emitted window sees the same block and every spectrum is equal.
	src := sineSamples(windowLen, 20)
	for i := 0; i < 17; i++ {
		b.Append(src)
	}

	s := NewSampler(b)
	const width, height = 40, 10
	y := 4
	ref := s.Intensity(width/2, y, width, height)
	for x := width / 4; x < width*3/4; x++ {
		v := s.Intensity(x, y, width, height)
		if math.Abs(v-ref) > 0.05 {
			t.Fatalf("column %d intensity %v deviates from %v", x, v, ref)
		}
	}
}
