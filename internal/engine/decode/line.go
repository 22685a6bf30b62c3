package decode

import "github.com/dshills/keystorm/internal/engine/sumtree"

// lineEntry is one line: its character count and how it ends. Exactly
// one lineEntry in a built sequence has Ending == BreakNone, and it is
// always last (the final, possibly empty, unterminated line).
type lineEntry struct {
	Characters int
	Ending     BreakKind
}

type lineSummary struct {
	Characters int64
	Lines      int64
}

func linePolicy() sumtree.Policy[lineEntry, lineSummary] {
	return sumtree.Policy[lineEntry, lineSummary]{
		Zero: func() lineSummary { return lineSummary{} },
		Combine: func(a, b lineSummary) lineSummary {
			return lineSummary{Characters: a.Characters + b.Characters, Lines: a.Lines + b.Lines}
		},
		Measure: func(c lineEntry) lineSummary {
			return lineSummary{Characters: int64(c.Characters), Lines: 1}
		},
	}
}

// buildLines groups characters into lines, splitting after every
// line-ending character. The trailing, unterminated line is always
// emitted, even if empty.
func buildLines(chars []characterEntry) []lineEntry {
	out := make([]lineEntry, 0, 16)
	count := 0
	for _, c := range chars {
		count++
		if c.Break != BreakNone {
			out = append(out, lineEntry{Characters: count, Ending: c.Break})
			count = 0
		}
	}
	out = append(out, lineEntry{Characters: count, Ending: BreakNone})
	return out
}
