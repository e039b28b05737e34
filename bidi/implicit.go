package bidi

// resolveImplicit applies I1/I2 over one isolating run sequence, bumping
// each character's level according to its resolved type and the level's
// own parity.
func resolveImplicit(levels []uint8, resolved []Class, seq *isolatingRunSequence) {
	even := seq.level%2 == 0
	for _, idx := range seq.indices {
		c := resolved[idx]
		switch {
		case even && c == R:
			levels[idx] = seq.level + 1
		case even && (c == AN || c == EN):
			levels[idx] = seq.level + 2
		case !even && (c == L || c == EN):
			levels[idx] = seq.level + 1
		case !even && c == AN:
			levels[idx] = seq.level + 2
		default:
			levels[idx] = seq.level
		}
	}
}

// resetForDisplay applies L1: segment separators, paragraph separators,
// and any run of whitespace or isolate-formatting characters immediately
// preceding one of those (or running to the paragraph's end) are reset to
// the paragraph level, overriding whatever Stage I computed for them.
func resetForDisplay(levels []uint8, original []Class, start, end int, paragraphLevel uint8) {
	runStart := -1
	for i := start; i < end; i++ {
		switch original[i] {
		case S, B:
			levels[i] = paragraphLevel
			if runStart >= 0 {
				for k := runStart; k < i; k++ {
					levels[k] = paragraphLevel
				}
				runStart = -1
			}
		case WS, FSI, LRI, RLI, PDI, LRE, RLE, LRO, RLO, PDF, BN:
			if runStart < 0 {
				runStart = i
			}
		default:
			runStart = -1
		}
	}
	if runStart >= 0 {
		for k := runStart; k < end; k++ {
			levels[k] = paragraphLevel
		}
	}
}
