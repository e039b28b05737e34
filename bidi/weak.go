package bidi

// resolveWeak applies rules W1-W7 to one isolating run sequence, mutating
// resolved in place over the sequence's index chain.
func resolveWeak(resolved []Class, seq *isolatingRunSequence) {
	n := len(seq.indices)
	at := func(i int) Class { return resolved[seq.indices[i]] }
	set := func(i int, c Class) { resolved[seq.indices[i]] = c }

	// W1: NSM takes the type of the previous character, or sos if it is
	// the first in the sequence. NSM after an isolate initiator or PDI
	// becomes ON instead.
	prev := seq.sos
	for i := 0; i < n; i++ {
		c := at(i)
		if c == NSM {
			if isIsolateInitiator(prev) || prev == PDI {
				set(i, ON)
			} else {
				set(i, prev)
			}
		}
		prev = at(i)
	}

	// W2: EN becomes AN if the last strong type seen (scanning backward)
	// was AL.
	lastStrong := seq.sos
	for i := 0; i < n; i++ {
		c := at(i)
		if c == EN && lastStrong == AL {
			set(i, AN)
		}
		if isStrong(c) {
			lastStrong = c
		}
	}

	// W3: AL becomes R.
	for i := 0; i < n; i++ {
		if at(i) == AL {
			set(i, R)
		}
	}

	// W4: a single ES between two EN becomes EN; a single CS between two
	// numbers of the same type becomes that type.
	for i := 1; i < n-1; i++ {
		c := at(i)
		before, after := at(i-1), at(i+1)
		if c == ES && before == EN && after == EN {
			set(i, EN)
		} else if c == CS && before == after && (before == EN || before == AN) {
			set(i, before)
		}
	}

	// W5: a sequence of ET adjacent to EN takes EN.
	i := 0
	for i < n {
		if at(i) != ET {
			i++
			continue
		}
		j := i
		for j < n && at(j) == ET {
			j++
		}
		adjacentEN := (i > 0 && at(i-1) == EN) || (j < n && at(j) == EN)
		if adjacentEN {
			for k := i; k < j; k++ {
				set(k, EN)
			}
		}
		i = j
	}

	// W6: remaining ES, ET, CS become ON.
	for i := 0; i < n; i++ {
		switch at(i) {
		case ES, ET, CS:
			set(i, ON)
		}
	}

	// W7: EN becomes L if the last strong type seen (scanning backward,
	// sos as the initial value) was L.
	lastStrong = seq.sos
	for i := 0; i < n; i++ {
		c := at(i)
		if c == EN && lastStrong == L {
			set(i, L)
		}
		if isStrong(c) {
			lastStrong = c
		}
	}
}
