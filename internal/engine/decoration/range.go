package decoration

import "github.com/dshills/keystorm/internal/engine/sumtree"

// Offset is the coordinate type ranges are stored in. Decorations are
// anchored wherever the caller's conversion layer puts them — typically
// byte offsets for direct buffer decorations, or character offsets when
// driven off decode.Interpretation's patch tables.
type Offset = int64

// rangeEntry is one decoration, stored relative to the previous entry's
// start (spec.md §4.D's "offset-from-prev-start" representation).
type rangeEntry struct {
	GapBefore Offset // this entry's Start minus the previous entry's Start
	Length    Offset
	Style     Style
}

// rangeSummary augments a subtree with how far it advances the running
// start position (Span) and the furthest absolute end reachable within it
// (MaxEnd, expressed relative to the subtree's own start) — the two
// monoid fields an interval-tree max-end augmentation needs.
type rangeSummary struct {
	Span   Offset
	MaxEnd Offset
	Count  int64
}

func rangePolicy() sumtree.Policy[rangeEntry, rangeSummary] {
	return sumtree.Policy[rangeEntry, rangeSummary]{
		Zero: func() rangeSummary { return rangeSummary{} },
		Combine: func(a, b rangeSummary) rangeSummary {
			maxEnd := a.MaxEnd
			if shifted := a.Span + b.MaxEnd; shifted > maxEnd {
				maxEnd = shifted
			}
			return rangeSummary{Span: a.Span + b.Span, MaxEnd: maxEnd, Count: a.Count + b.Count}
		},
		Measure: func(e rangeEntry) rangeSummary {
			end := e.GapBefore + e.Length
			return rangeSummary{Span: end, MaxEnd: end, Count: 1}
		},
	}
}

// Decoration is the absolute-position view of one stored range, returned
// by Registry's query methods.
type Decoration struct {
	Start, End Offset
	Style      Style
}

func buildRangeTree(vals []Decoration) sumtree.Tree[rangeEntry, rangeSummary] {
	entries := make([]rangeEntry, len(vals))
	prevStart := Offset(0)
	for i, v := range vals {
		entries[i] = rangeEntry{GapBefore: v.Start - prevStart, Length: v.End - v.Start, Style: v.Style}
		prevStart = v.Start
	}
	return sumtree.FromSlice(rangePolicy(), entries)
}

func valsFromTree(t sumtree.Tree[rangeEntry, rangeSummary]) []Decoration {
	out := make([]Decoration, 0, t.Count())
	start := Offset(0)
	t.ForEach(func(e rangeEntry) bool {
		start += e.GapBefore
		out = append(out, Decoration{Start: start, End: start + e.Length, Style: e.Style})
		return true
	})
	return out
}
