package outline

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// toSubpixel maps a user-space coordinate to a 26.6 fixed-point subpixel
// value: X = round((x*scale + offsetX) * ONE_PIXEL); Y is the same after
// an optional flip, per the rasterizer contract's coordinate discipline.
func toSubpixel(v, scale, offset float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round((v*scale + offset) * float64(OnePixel)))
}

// Decompose replays path's command sequence into raster, transforming
// every user-space coordinate to 26.6 fixed-point subpixel space. A
// fresh MoveTo implicitly closes whatever contour preceded it; an
// explicit ClosePath closes the current contour and calls raster.Close.
func Decompose(raster Rasterizer, path *GlyphPath, scale, offsetX, offsetY float64, flipY bool) {
	toX := func(x float64) fixed.Int26_6 { return toSubpixel(x, scale, offsetX) }
	toY := func(y float64) fixed.Int26_6 {
		if flipY {
			y = -y
		}
		return toSubpixel(y, scale, offsetY)
	}

	open := false
	for _, seg := range path.Segments {
		switch seg.Cmd {
		case MoveTo:
			if open {
				raster.Close()
			}
			raster.MoveTo(toX(seg.P.X), toY(seg.P.Y))
			open = true
		case LineTo:
			raster.LineTo(toX(seg.P.X), toY(seg.P.Y))
		case QuadTo:
			raster.ConicTo(toX(seg.Ctrl1.X), toY(seg.Ctrl1.Y), toX(seg.P.X), toY(seg.P.Y))
		case CubicTo:
			raster.CubicTo(
				toX(seg.Ctrl1.X), toY(seg.Ctrl1.Y),
				toX(seg.Ctrl2.X), toY(seg.Ctrl2.Y),
				toX(seg.P.X), toY(seg.P.Y),
			)
		case ClosePath:
			raster.Close()
			open = false
		}
	}
	if open {
		raster.Close()
	}
}

// IntBounds is a glyph's bounding box in integer pixel space, expanded
// outward from the scaled float bounds (floor on the minimum, ceil on
// the maximum).
type IntBounds struct {
	XMin, YMin, XMax, YMax int32
}

// PathBounds scales path's recorded bounds by scale, flips Y if
// requested, and expands to integer pixel bounds. Returns nil if path
// carries no bounds.
func PathBounds(path *GlyphPath, scale float64, flipY bool) *IntBounds {
	if path == nil || path.Bounds == nil {
		return nil
	}
	b := *path.Bounds
	yMin, yMax := b.YMin*scale, b.YMax*scale
	if flipY {
		yMin, yMax = -yMax, -yMin
	}
	xMin, xMax := b.XMin*scale, b.XMax*scale

	return &IntBounds{
		XMin: int32(math.Floor(xMin)),
		YMin: int32(math.Floor(yMin)),
		XMax: int32(math.Ceil(xMax)),
		YMax: int32(math.Ceil(yMax)),
	}
}

// FillRuleFromFlags inspects path's flag bitmap, returning EvenOdd if
// EvenOddFill is set and def otherwise.
func FillRuleFromFlags(path *GlyphPath, def FillRule) FillRule {
	if path != nil && path.Flags&EvenOddFill != 0 {
		return EvenOdd
	}
	return def
}
