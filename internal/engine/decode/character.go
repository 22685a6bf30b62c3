package decode

import "github.com/dshills/keystorm/internal/engine/sumtree"

// BreakKind classifies how a character ends a line, if it does.
type BreakKind uint8

const (
	BreakNone BreakKind = iota
	BreakLF
	BreakCR
	BreakCRLF
)

// characterEntry is one character: either a single codepoint, or a
// CRLF pair collapsed into one unit (a CRLF is two codepoints, one
// character).
type characterEntry struct {
	Codepoints int
	Bytes      int
	Break      BreakKind
}

type characterSummary struct {
	Codepoints int64
	Bytes      int64
	Lines      int64 // number of line-ending characters in this subtree
}

func characterPolicy() sumtree.Policy[characterEntry, characterSummary] {
	return sumtree.Policy[characterEntry, characterSummary]{
		Zero: func() characterSummary { return characterSummary{} },
		Combine: func(a, b characterSummary) characterSummary {
			return characterSummary{
				Codepoints: a.Codepoints + b.Codepoints,
				Bytes:      a.Bytes + b.Bytes,
				Lines:      a.Lines + b.Lines,
			}
		},
		Measure: func(c characterEntry) characterSummary {
			s := characterSummary{Codepoints: int64(c.Codepoints), Bytes: int64(c.Bytes)}
			if c.Break != BreakNone {
				s.Lines = 1
			}
			return s
		},
	}
}

// buildCharacters groups a codepoint sequence into characters, merging a
// CR immediately followed by an LF into a single CRLF character.
func buildCharacters(runes []runeEntry) []characterEntry {
	out := make([]characterEntry, 0, len(runes))
	for i := 0; i < len(runes); {
		switch {
		case runes[i].R == '\r' && i+1 < len(runes) && runes[i+1].R == '\n':
			out = append(out, characterEntry{
				Codepoints: 2,
				Bytes:      runes[i].Bytes + runes[i+1].Bytes,
				Break:      BreakCRLF,
			})
			i += 2
		case runes[i].R == '\n':
			out = append(out, characterEntry{Codepoints: 1, Bytes: runes[i].Bytes, Break: BreakLF})
			i++
		case runes[i].R == '\r':
			out = append(out, characterEntry{Codepoints: 1, Bytes: runes[i].Bytes, Break: BreakCR})
			i++
		default:
			out = append(out, characterEntry{Codepoints: 1, Bytes: runes[i].Bytes, Break: BreakNone})
			i++
		}
	}
	return out
}
