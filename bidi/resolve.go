package bidi

// Result is the outcome of resolving one text's bidirectional structure:
// a paragraph list and an embedding level per code point, ready for
// reordering or display.
type Result struct {
	Paragraphs []Paragraph
	Levels     []uint8
}

// Level returns the resolved embedding level at index i.
func (r *Result) Level(i int) uint8 {
	return r.Levels[i]
}

// Resolve treats BN and the explicit formatting codes as ordinary
// sequence members during W/N/I rather than removing them per X9; they
// already carry a stable level from Stage X, so in the common case where
// they sit between same-typed neighbors this matches the "retaining
// format characters" variant UAX #9 describes as an equally valid
// alternative to deletion.
//
// Resolve runs the full UAX #9 pipeline (paragraphs, explicit levels,
// isolating run sequences, weak and neutral types, implicit levels, and
// the L1 reset) over text, honoring dir as the paragraph-direction hint.
func Resolve(text []rune, dir Direction) *Result {
	classes := make([]Class, len(text))
	for i, r := range text {
		classes[i] = Classify(uint32(r))
	}

	paragraphs := splitParagraphs(classes)
	levels := make([]uint8, len(text))

	for pi, p := range paragraphs {
		level := paragraphLevel(classes, p.Start, p.End, dir)
		paragraphs[pi].Level = level

		pLevels, resolved := resolveExplicit(classes, p.Start, p.End, level)
		matches := matchIsolates(resolved, 0, len(resolved))
		sequences := buildSequences(resolved, pLevels, matches, level)

		for _, seq := range sequences {
			resolveWeak(resolved, seq)
			resolveBrackets(resolved, seq, text[p.Start:p.End])
			resolveNeutrals(resolved, seq)
			resolveImplicit(pLevels, resolved, seq)
		}

		resetForDisplay(pLevels, classes[p.Start:p.End], 0, len(pLevels), level)

		copy(levels[p.Start:p.End], pLevels)
	}

	return &Result{Paragraphs: paragraphs, Levels: levels}
}
