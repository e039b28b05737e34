package outline

// Status is the discriminated result of validate: a successful parse, or
// one of the two documented non-error statuses.
type Status int

const (
	Ok Status = iota
	InvalidOutline
	EmptyOutline
)

// OutlineError pairs a Status with an optional human-readable detail.
type OutlineError struct {
	Status  Status
	Message string
}

func (e *OutlineError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Status {
	case InvalidOutline:
		return "outline: invalid path"
	case EmptyOutline:
		return "outline: empty path"
	}
	return "outline: ok"
}

func invalid(msg string) *OutlineError {
	return &OutlineError{Status: InvalidOutline, Message: msg}
}

// Validate checks path's structural well-formedness: every LineTo/QuadTo/
// CubicTo must follow a MoveTo within the same contour, every coordinate
// must be finite, and every command must be one of the five known kinds.
// A nil path is always InvalidOutline. An empty command list is
// EmptyOutline when allowEmpty, else InvalidOutline.
func Validate(path *GlyphPath, allowEmpty bool) *OutlineError {
	if path == nil {
		return invalid("nil path")
	}
	if len(path.Segments) == 0 {
		if allowEmpty {
			return &OutlineError{Status: EmptyOutline}
		}
		return invalid("empty path")
	}

	open := false
	for _, seg := range path.Segments {
		switch seg.Cmd {
		case MoveTo:
			if !isFinite(seg.P.X) || !isFinite(seg.P.Y) {
				return invalid("non-finite coordinate in moveTo")
			}
			open = true
		case LineTo:
			if !open {
				return invalid("lineTo without a preceding moveTo")
			}
			if !isFinite(seg.P.X) || !isFinite(seg.P.Y) {
				return invalid("non-finite coordinate in lineTo")
			}
		case QuadTo:
			if !open {
				return invalid("quadTo without a preceding moveTo")
			}
			if !isFinite(seg.Ctrl1.X) || !isFinite(seg.Ctrl1.Y) || !isFinite(seg.P.X) || !isFinite(seg.P.Y) {
				return invalid("non-finite coordinate in quadTo")
			}
		case CubicTo:
			if !open {
				return invalid("cubicTo without a preceding moveTo")
			}
			if !isFinite(seg.Ctrl1.X) || !isFinite(seg.Ctrl1.Y) || !isFinite(seg.Ctrl2.X) || !isFinite(seg.Ctrl2.Y) || !isFinite(seg.P.X) || !isFinite(seg.P.Y) {
				return invalid("non-finite coordinate in cubicTo")
			}
		case ClosePath:
			if !open {
				return invalid("closePath without a preceding moveTo")
			}
			open = false
		default:
			return invalid("unknown path command")
		}
	}

	return nil
}
