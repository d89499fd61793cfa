package dsp

import "math"

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Transform computes the forward discrete Fourier transform of xs in place
// using a recursive radix-2 decimation-in-time Cooley-Tukey algorithm. The
// forward convention is e^{-2πi·k/N}.
//
// scratch must have length >= len(xs)/2. The same buffer is passed down to
// both recursive halves: only one level's interleave step is live at a time,
// so it never needs to grow and the whole transform allocates nothing.
//
// len(xs) must be a power of two. An odd sub-length is a caller bug, not bad
// input data, so it panics rather than returning a silently wrong result.
// A sequence of length < 2 is its own transform.
func Transform(xs, scratch []Complex) {
	n := len(xs)
	if n < 2 {
		return
	}

	half := n / 2
	if half*2 != n {
		panic("dsp: transform length must be a power of two")
	}
	if len(scratch) < half {
		panic("dsp: scratch buffer shorter than half the input")
	}

	// Decimate: evens compact to the front half in place, odds go to the
	// back half by way of the scratch buffer.
	for i := 0; i < half; i++ {
		scratch[i] = xs[2*i+1]
		xs[i] = xs[2*i]
	}
	copy(xs[half:], scratch[:half])

	Transform(xs[:half], scratch)
	Transform(xs[half:], scratch)

	twoPiOverLen := 2 * math.Pi / float64(n)
	for i := 0; i < half; i++ {
		arg := float64(i) * twoPiOverLen
		twiddle := Complex{Re: math.Cos(arg), Im: -math.Sin(arg)}
		even := xs[i]
		odd := xs[i+half]
		xs[i] = twiddle.MulAdd(odd, even)
		xs[i+half] = twiddle.MulAdd(odd.Neg(), even)
	}
}
