package dsp

import "math"

// Complex is a two-component complex value used by the transform.
type Complex struct {
	Re float64
	Im float64
}

// Add returns z + w.
func (z Complex) Add(w Complex) Complex {
	return Complex{Re: z.Re + w.Re, Im: z.Im + w.Im}
}

// Sub returns z - w.
func (z Complex) Sub(w Complex) Complex {
	return Complex{Re: z.Re - w.Re, Im: z.Im - w.Im}
}

// Neg returns -z.
func (z Complex) Neg() Complex {
	return Complex{Re: -z.Re, Im: -z.Im}
}

// MulAdd returns z*factor + term. Each component is computed with fused
// multiply-adds so rounding error does not accumulate across the
// twiddle-factor steps of a long transform.
func (z Complex) MulAdd(factor, term Complex) Complex {
	return Complex{
		Re: math.FMA(z.Re, factor.Re, math.FMA(-z.Im, factor.Im, term.Re)),
		Im: math.FMA(z.Re, factor.Im, math.FMA(z.Im, factor.Re, term.Im)),
	}
}
