package dsp

import "math"

// Window weights the sample at position i in a block of length n.
// Implementations must be pure so precomputed coefficient tables stay valid.
type Window func(i, n int) float64

// Hann is a raised-cosine window, 2·sin²(π·i/(n-1)). The factor 2 compensates
// for the mean-square value of sin² being 1/2, so the average weight over the
// window is 1 and windowed magnitudes stay comparable to unwindowed ones.
// Panics if n < 2.
func Hann(i, n int) float64 {
	if n < 2 {
		panic("dsp: window length must be at least 2")
	}
	s := math.Sin(float64(i) * math.Pi / float64(n-1))
	return 2 * s * s
}

// HannIntegral returns the definite integral of the normalized Hann window
// over [a, b], where the window spans [0, 1]. With w(t) = 2·sin²(πt) =
// 1 - cos(2πt) the antiderivative is t - sin(2πt)/(2π), so the integral is
// exact; the full-window integral is exactly 1.
//
// The closed form matters: the overlap weighting in the sampler evaluates
// this at window boundaries, where a numerical approximation would both cost
// time and break the no-gaps/no-double-counting property.
func HannIntegral(a, b float64) float64 {
	return hannPrimitive(b) - hannPrimitive(a)
}

func hannPrimitive(t float64) float64 {
	return t - math.Sin(2*math.Pi*t)/(2*math.Pi)
}
