package bidi

import "sort"

// isNeutralOrIsolate reports whether c is one of the NI types that N0-N2
// operate over: paragraph/segment separators, whitespace, other neutrals,
// and isolate formatting characters.
func isNeutralOrIsolate(c Class) bool {
	switch c {
	case B, S, WS, ON, FSI, LRI, RLI, PDI:
		return true
	}
	return false
}

// strongForBracket maps a resolved type to the L/R direction N0 reasons
// about, treating EN and AN as R per the rule's note.
func strongForBracket(c Class) (Class, bool) {
	switch c {
	case L:
		return L, true
	case R, EN, AN:
		return R, true
	}
	return 0, false
}

type bracketPairPos struct {
	openIdx, closeIdx int // positions within seq.indices
}

// resolveBrackets implements N0: it locates canonically-matched bracket
// pairs within the sequence (BD16, a 63-deep stack of open brackets), then
// resolves each pair's direction from the strong types it encloses and,
// failing that, the context preceding the opening bracket.
func resolveBrackets(resolved []Class, seq *isolatingRunSequence, text []rune) {
	n := len(seq.indices)
	at := func(i int) Class { return resolved[seq.indices[i]] }
	set := func(i int, c Class) { resolved[seq.indices[i]] = c }
	rune_ := func(i int) rune { return text[seq.indices[i]] }

	embedding := L
	if seq.level%2 == 1 {
		embedding = R
	}

	type stackEntry struct {
		pos      int
		bracket  int // index into pairedBrackets
	}
	var stack []stackEntry
	var pairs []bracketPairPos

	for i := 0; i < n; i++ {
		if at(i) != ON {
			continue
		}
		r := rune_(i)
		if oi := bracketOpenIndex(r); oi >= 0 {
			if len(stack) >= 63 {
				break
			}
			stack = append(stack, stackEntry{pos: i, bracket: oi})
			continue
		}
		if bracketCloseIndex(r) >= 0 {
			for k := len(stack) - 1; k >= 0; k-- {
				if canonicalEquivalent(pairedBrackets[stack[k].bracket].close, r) {
					pairs = append(pairs, bracketPairPos{openIdx: stack[k].pos, closeIdx: i})
					stack = stack[:k]
					break
				}
			}
		}
	}

	sort.Slice(pairs, func(a, b int) bool { return pairs[a].openIdx < pairs[b].openIdx })

	for _, p := range pairs {
		foundEmbedding := false
		foundOpposite := false
		for i := p.openIdx + 1; i < p.closeIdx; i++ {
			dir, ok := strongForBracket(at(i))
			if !ok {
				continue
			}
			if dir == embedding {
				foundEmbedding = true
				break
			}
			foundOpposite = true
		}

		var resolvedDir Class
		switch {
		case foundEmbedding:
			resolvedDir = embedding
		case foundOpposite:
			// Look at the context preceding the opening bracket for the
			// first strong type, falling back to sos.
			context := seq.sos
			for i := p.openIdx - 1; i >= 0; i-- {
				if dir, ok := strongForBracket(at(i)); ok {
					context = dir
					break
				}
			}
			if context != embedding && (context == L || context == R) {
				resolvedDir = context
			} else {
				resolvedDir = embedding
			}
		default:
			// No strong type inside: leave both brackets neutral for N1/N2.
			continue
		}

		// N0's closing clause gives any NSM following a bracket the
		// bracket's resolved direction, but W1 already rewrote every NSM
		// to its preceding character's type (here, ON) before Stage N
		// runs, so that NSM already inherited ON rather than the
		// bracket's still-unresolved direction. Resolving the bracket
		// here does not retroactively change it; nothing further to do.
		set(p.openIdx, resolvedDir)
		set(p.closeIdx, resolvedDir)
	}
}

// resolveNeutrals implements N1 and N2 over one isolating run sequence:
// maximal runs of NI types take the direction shared by the strong types
// on either side (treating EN/AN as R), or the embedding direction
// otherwise.
func resolveNeutrals(resolved []Class, seq *isolatingRunSequence) {
	n := len(seq.indices)
	at := func(i int) Class { return resolved[seq.indices[i]] }
	set := func(i int, c Class) { resolved[seq.indices[i]] = c }

	embedding := L
	if seq.level%2 == 1 {
		embedding = R
	}

	i := 0
	for i < n {
		if !isNeutralOrIsolate(at(i)) {
			i++
			continue
		}
		j := i
		for j < n && isNeutralOrIsolate(at(j)) {
			j++
		}

		before := seq.sos
		if i > 0 {
			if dir, ok := strongForBracket(at(i - 1)); ok {
				before = dir
			}
		}
		after := seq.eos
		if j < n {
			if dir, ok := strongForBracket(at(j)); ok {
				after = dir
			}
		}

		dir := embedding
		if before == after && (before == L || before == R) {
			dir = before
		}
		for k := i; k < j; k++ {
			set(k, dir)
		}
		i = j
	}
}
