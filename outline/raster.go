package outline

import "golang.org/x/image/math/fixed"

// Rasterizer is the scanline rasterizer contract C8 decomposes onto: four
// drawing primitives taking 26.6 fixed-point subpixel coordinates
// (ONE_PIXEL units of 64 per pixel), plus Close and an integer clip setup.
type Rasterizer interface {
	SetClip(xMin, yMin, xMax, yMax int32)
	MoveTo(x, y fixed.Int26_6)
	LineTo(x, y fixed.Int26_6)
	ConicTo(cx, cy, x, y fixed.Int26_6)
	CubicTo(c1x, c1y, c2x, c2y, x, y fixed.Int26_6)
	Close()
}

// OnePixel is the 26.6 fixed-point subpixel grid's unit size: 64
// subpixels (6 fractional bits) per pixel.
const OnePixel = fixed.Int26_6(64)
