package decode

import (
	"github.com/dshills/keystorm/internal/engine/encoding"
	"github.com/dshills/keystorm/internal/engine/sumtree"
)

// runeEntry is one decoded codepoint: the rune itself, the number of
// bytes its descriptor consumed to produce it, and whether that
// encoding was well-formed.
type runeEntry struct {
	R     rune
	Bytes int
	Valid bool
}

type runeSummary struct {
	Bytes int64
}

func codepointPolicy() sumtree.Policy[runeEntry, runeSummary] {
	return sumtree.Policy[runeEntry, runeSummary]{
		Zero: func() runeSummary { return runeSummary{} },
		Combine: func(a, b runeSummary) runeSummary {
			return runeSummary{Bytes: a.Bytes + b.Bytes}
		},
		Measure: func(c runeEntry) runeSummary { return runeSummary{Bytes: int64(c.Bytes)} },
	}
}

// decodeRunes decodes text into a flat slice of codepoints using desc,
// advancing past invalid sequences one byte at a time so a run of
// garbage bytes always terminates.
func decodeRunes(desc encoding.Descriptor, text string) []runeEntry {
	b := []byte(text)
	out := make([]runeEntry, 0, len(b))
	for len(b) > 0 {
		r, advance, valid := desc.DecodeOne(b)
		if advance <= 0 {
			advance = 1
		}
		out = append(out, runeEntry{R: r, Bytes: advance, Valid: valid})
		b = b[advance:]
	}
	return out
}
