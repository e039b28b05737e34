// Package outline validates vector glyph outlines and decomposes them
// into a scanline rasterizer's move/line/conic/cubic call stream, with
// fixed-point coordinate discipline matching golang.org/x/image/math/fixed.
package outline

import "math"

// Command is one drawing instruction in a GlyphPath.
type Command int

const (
	MoveTo Command = iota
	LineTo
	QuadTo
	CubicTo
	ClosePath
)

// Segment is one recorded command and its operand points. MoveTo and
// LineTo use only P; QuadTo additionally uses Ctrl1; CubicTo uses both
// Ctrl1 and Ctrl2; ClosePath uses neither.
type Segment struct {
	Cmd          Command
	Ctrl1, Ctrl2 Point
	P            Point
}

// Point is a user-space coordinate pair, prior to any scaling or
// fixed-point conversion.
type Point struct {
	X, Y float64
}

// Bounds is a glyph's user-space bounding box, as recorded alongside its
// path by the outline source.
type Bounds struct {
	XMin, YMin, XMax, YMax float64
}

// FillRule selects how a path's self-intersections are filled.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// PathFlags is a bitmap of path-level hints the outline source may set.
type PathFlags uint8

const (
	EvenOddFill PathFlags = 1 << iota
)

// GlyphPath is one glyph's vector outline: a command sequence plus the
// bounding box and flags the outline source recorded alongside it.
type GlyphPath struct {
	Segments  []Segment
	Bounds    *Bounds
	Flags     PathFlags
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
