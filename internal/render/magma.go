// Package render rasterizes spectrogram intensities, either to an RGB
// bitmap for PNG export or to ANSI-colored half-block cells for the
// terminal.
package render

import "math"

// RGB is one 8-bit color.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Polynomial fit of the magma colormap, evaluated with Horner's rule.
// Based on https://www.shadertoy.com/view/WlfXRN (CC0), itself a fit of
// https://github.com/BIDS/colormap/blob/master/colormaps.py (CC0).
var magmaCoeffs = [7][3]float64{
	{18.65570506591883, -11.48977351997711, -5.601961508734096},
	{-50.76852536473588, 29.04658282127291, 4.23415299384598},
	{52.17613981234068, -27.94360607168351, 12.94416944238394},
	{-27.66873308576866, 14.26473078096533, -13.64921318813922},
	{8.353717279216625, -3.577719514958484, 0.3144679030132573},
	{0.2516605407371642, 0.6775232436837668, 2.494026599312351},
	{-0.002136485053939582, -0.000749655052795221, -0.005386127855323933},
}

// Magma maps t in [0, 1] onto the magma colormap.
func Magma(t float64) RGB {
	result := magmaCoeffs[0]
	for j := 1; j < 7; j++ {
		for i := 0; i < 3; i++ {
			result[i] = math.FMA(result[i], t, magmaCoeffs[j][i])
		}
	}
	return RGB{
		R: channelByte(result[0]),
		G: channelByte(result[1]),
		B: channelByte(result[2]),
	}
}

func channelByte(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v * 255)
}
