// Package linebreak implements the UAX #14 line breaking algorithm: per
// code point class assignment followed by a pair-action state machine
// that yields one break opportunity per boundary.
package linebreak

import "sort"

// Class is one of the 43 UAX #14 line-breaking property values.
type Class uint8

// The 43-value UAX #14 class enumeration.
const (
	XX Class = iota // Unknown
	AI              // Ambiguous (Alphabetic or Ideographic)
	AL              // Ordinary Alphabetic
	B2              // Break Opportunity Before and After
	BA              // Break After
	BB              // Break Before
	BK              // Mandatory Break
	CB              // Contingent Break Opportunity
	CJ              // Conditional Japanese Starter
	CL              // Close Punctuation
	CM              // Combining Mark
	CP              // Close Parenthesis
	CR              // Carriage Return
	EB              // Emoji Base
	EM              // Emoji Modifier
	EX              // Exclamation/Interrogation
	GL              // Non-breaking ("Glue")
	H2              // Hangul LV Syllable
	H3              // Hangul LVT Syllable
	HL              // Hebrew Letter
	HY              // Hyphen
	ID              // Ideographic
	IN              // Inseparable
	IS              // Infix Numeric Separator
	JL              // Hangul L Jamo
	JT              // Hangul T Jamo
	JV              // Hangul V Jamo
	LF              // Line Feed
	NL              // Next Line
	NS              // Nonstarter
	NU              // Numeric
	OP              // Open Punctuation
	PO              // Postfix Numeric
	PR              // Prefix Numeric
	QU              // Quotation
	RI              // Regional Indicator
	SA              // Complex Context (South East Asian)
	SG              // Surrogate
	SP              // Space
	SY              // Symbols Allowing Break After
	WJ              // Word Joiner
	ZW              // Zero Width Space
	ZWJ             // Zero Width Joiner
)

type classRange struct {
	start, end uint32
	class      Class
}

// classRanges is a sorted, non-overlapping dispatch table mapping code
// point ranges to their UAX #14 line-breaking class. Entries not listed
// here default to AL (see classify), matching how the bulk of Unicode's
// alphabetic content needs no special-case entry.
var classRanges = []classRange{
	{0x0009, 0x0009, BA}, // TAB
	{0x000A, 0x000A, LF},
	{0x000B, 0x000B, BK},
	{0x000C, 0x000C, BK},
	{0x000D, 0x000D, CR},
	{0x0020, 0x0020, SP},
	{0x0021, 0x0021, EX},
	{0x0022, 0x0022, QU},
	{0x0023, 0x0023, AL},
	{0x0024, 0x0024, PR},
	{0x0025, 0x0025, PO},
	{0x0026, 0x0026, AL},
	{0x0027, 0x0027, QU},
	{0x0028, 0x0028, OP},
	{0x0029, 0x0029, CP},
	{0x002A, 0x002A, AL},
	{0x002B, 0x002B, PR},
	{0x002C, 0x002C, IS},
	{0x002D, 0x002D, HY},
	{0x002E, 0x002E, IS},
	{0x002F, 0x002F, SY},
	{0x0030, 0x0039, NU}, // ASCII digits
	{0x003A, 0x003A, IS},
	{0x003B, 0x003B, IS},
	{0x003C, 0x003E, AL},
	{0x003F, 0x003F, EX},
	{0x0041, 0x005A, AL}, // ASCII upper letters
	{0x005B, 0x005B, OP},
	{0x005C, 0x005C, PR},
	{0x005D, 0x005D, CL},
	{0x005E, 0x005F, AL},
	{0x0061, 0x007A, AL}, // ASCII lower letters
	{0x007B, 0x007B, OP},
	{0x007C, 0x007C, BA},
	{0x007D, 0x007D, CL},
	{0x0085, 0x0085, NL},
	{0x00A0, 0x00A0, GL},
	{0x00A2, 0x00A3, PO},
	{0x00A4, 0x00A4, PR},
	{0x00A5, 0x00A5, PR},
	{0x00A6, 0x00A6, AL},
	{0x00AB, 0x00AB, QU},
	{0x00AD, 0x00AD, BA}, // soft hyphen
	{0x00B0, 0x00B0, PO},
	{0x00BB, 0x00BB, QU},
	{0x0590, 0x05FF, HL}, // Hebrew block
	{0x0600, 0x0605, PR}, // Arabic number signs
	{0x0660, 0x0669, NU}, // Arabic-Indic digits
	{0x06F0, 0x06F9, NU}, // Extended Arabic-Indic digits
	{0x0E01, 0x0E3A, SA}, // Thai
	{0x0E40, 0x0E5B, SA},
	{0x0E81, 0x0EDF, SA}, // Lao
	{0x1000, 0x109F, SA}, // Myanmar
	{0x1780, 0x17FF, SA}, // Khmer
	{0x2007, 0x2007, GL},
	{0x2011, 0x2011, GL},
	{0x2014, 0x2014, B2}, // em dash
	{0x2018, 0x2019, QU},
	{0x201C, 0x201D, QU},
	{0x2028, 0x2028, BK},
	{0x2029, 0x2029, BK},
	{0x202F, 0x202F, GL},
	{0x2060, 0x2060, WJ},
	{0x200B, 0x200B, ZW},
	{0x200D, 0x200D, ZWJ},
	{0x2066, 0x2069, CM}, // isolate formatting characters, treated as combining for width purposes here
	{0x231A, 0x231B, ID},
	{0x2600, 0x27BF, ID},
	{0x2E80, 0x2FFF, ID}, // CJK radicals / Kangxi
	{0x3000, 0x3000, BA}, // ideographic space
	{0x3001, 0x3002, CL},
	{0x3008, 0x3008, OP},
	{0x3009, 0x3009, CL},
	{0x300A, 0x300A, OP},
	{0x300B, 0x300B, CL},
	{0x3041, 0x3041, CJ}, // small hiragana
	{0x3043, 0x3043, CJ},
	{0x3045, 0x3045, CJ},
	{0x3047, 0x3047, CJ},
	{0x3049, 0x3049, CJ},
	{0x3063, 0x3063, CJ},
	{0x3083, 0x3083, CJ},
	{0x3085, 0x3085, CJ},
	{0x3087, 0x3087, CJ},
	{0x308E, 0x308E, CJ},
	{0x3095, 0x3096, CJ},
	{0x309B, 0x309C, NS},
	{0x309D, 0x309E, NS},
	{0x30A1, 0x30A1, CJ}, // small katakana
	{0x30A3, 0x30A3, CJ},
	{0x30A5, 0x30A5, CJ},
	{0x30A7, 0x30A7, CJ},
	{0x30A9, 0x30A9, CJ},
	{0x30C3, 0x30C3, CJ},
	{0x30E3, 0x30E3, CJ},
	{0x30E5, 0x30E5, CJ},
	{0x30E7, 0x30E7, CJ},
	{0x30EE, 0x30EE, CJ},
	{0x30F5, 0x30F6, CJ},
	{0x30FB, 0x30FB, NS},
	{0x30FC, 0x30FC, CJ}, // prolonged-sound mark
	{0x3105, 0x312F, ID},
	{0x3400, 0x4DBF, ID},
	{0x4E00, 0x9FFF, ID}, // CJK Unified Ideographs
	{0xF900, 0xFAFF, ID}, // CJK Compatibility Ideographs
	{0xFE30, 0xFE4F, ID},
	{0xFEFF, 0xFEFF, WJ},
	{0xFF01, 0xFF01, EX},
	{0xFF08, 0xFF08, OP},
	{0xFF09, 0xFF09, CL},
	{0x1F1E6, 0x1F1FF, RI}, // regional indicators
	// The generic emoji range is dispatched to ID ahead of the narrower
	// emoji-modifier range (U+1F3FB-U+1F3FF) it contains, so modifiers
	// resolve to ID rather than EM. Reproduced faithfully: this disables
	// LB30b for base+modifier sequences.
	{0x1F300, 0x1F9FF, ID},
	{0x20000, 0x2A6DF, ID}, // CJK Extension B
	{0x2A700, 0x2EBEF, ID},
}

func init() {
	sort.Slice(classRanges, func(i, j int) bool { return classRanges[i].start < classRanges[j].start })
}

// Classify returns the UAX #14 line-breaking class of a single code point.
// Code points outside every listed range default to AL, the ordinary
// alphabetic class, matching the fallback UAX #14 itself specifies for
// unassigned-but-likely-alphabetic content.
func Classify(cp uint32) Class {
	// Hangul syllable block needs exact LV/LVT discrimination, so it is
	// handled here rather than in the range table.
	if cp >= 0xAC00 && cp <= 0xD7A3 {
		if (cp-0xAC00)%28 == 0 {
			return H2
		}
		return H3
	}
	if cp >= 0x1100 && cp <= 0x115F {
		return JL
	}
	if cp >= 0x1160 && cp <= 0x11A7 {
		return JV
	}
	if cp >= 0x11A8 && cp <= 0x11FF {
		return JT
	}
	if isSurrogate(cp) {
		return SG
	}

	i := sort.Search(len(classRanges), func(i int) bool { return classRanges[i].end >= cp })
	if i < len(classRanges) && cp >= classRanges[i].start && cp <= classRanges[i].end {
		return classRanges[i].class
	}
	return AL
}

func isSurrogate(cp uint32) bool {
	return cp >= 0xD800 && cp <= 0xDFFF
}
