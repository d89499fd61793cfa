package dsp

import (
	"math"
	"testing"
)

func TestHannWeightsAreNonNegativeAndAverageToOne(t *testing.T) {
	const n = 1024
	var sum float64
	for i := 0; i < n; i++ {
		w := Hann(i, n)
		if w < 0 {
			t.Fatalf("Hann(%d, %d) = %v, want >= 0", i, n, w)
		}
		sum += w
	}
	if avg := sum / n; math.Abs(avg-1) >= 1e-3 {
		t.Fatalf("average weight = %v, want 1", avg)
	}
}

func TestHannPanicsOnDegenerateLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for window length 1")
		}
	}()
	Hann(0, 1)
}

func TestHannIntegralOverFullWindowIsOne(t *testing.T) {
	if got := HannIntegral(0, 1); got != 1 {
		t.Fatalf("HannIntegral(0, 1) = %v, want exactly 1", got)
	}
}

func TestHannIntegralIsAdditive(t *testing.T) {
	left := HannIntegral(0, 0.5)
	right := HannIntegral(0.5, 1)
	if sum := left + right; math.Abs(sum-HannIntegral(0, 1)) >= 1e-15 {
		t.Fatalf("HannIntegral(0,0.5) + HannIntegral(0.5,1) = %v, want 1", sum)
	}
}

func TestHannIntegralMatchesNumericalSum(t *testing.T) {
	// Riemann midpoint check against the closed form on an uneven interval.
	const a, b = 0.13, 0.82
	const steps = 1 << 20
	h := (b - a) / steps
	var sum float64
	for i := 0; i < steps; i++ {
		tt := a + (float64(i)+0.5)*h
		sum += (1 - math.Cos(2*math.Pi*tt)) * h
	}
	if got := HannIntegral(a, b); math.Abs(got-sum) >= 1e-9 {
		t.Fatalf("HannIntegral(%v, %v) = %v, numerical sum %v", a, b, got, sum)
	}
}
