package render

import (
	"image"
	"image/png"
	"io"
)

// Bitmap is a packed RGB raster, rows top to bottom.
type Bitmap struct {
	Pix    []byte
	Width  int
	Height int
}

// Generate fills a width×height bitmap by evaluating f at every pixel and
// mapping the intensity through the magma colormap. f must return values in
// [0, 1]; (0, 0) is the top-left pixel.
func Generate(width, height int, f func(x, y int) float64) *Bitmap {
	pix := make([]byte, 0, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := Magma(f(x, y))
			pix = append(pix, c.R, c.G, c.B)
		}
	}
	return &Bitmap{Pix: pix, Width: width, Height: height}
}

// At returns the color of pixel (x, y).
func (b *Bitmap) At(x, y int) RGB {
	i := (y*b.Width + x) * 3
	return RGB{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

// WritePNG encodes the bitmap as PNG.
func (b *Bitmap) WritePNG(w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			src := (y*b.Width + x) * 3
			dst := img.PixOffset(x, y)
			img.Pix[dst] = b.Pix[src]
			img.Pix[dst+1] = b.Pix[src+1]
			img.Pix[dst+2] = b.Pix[src+2]
			img.Pix[dst+3] = 0xFF
		}
	}
	return png.Encode(w, img)
}
