package cursor

import (
	"sort"

	"github.com/dshills/keystorm/internal/engine/sumtree"
)

// caretEntry is CursorSet's sumtree chunk: a caret's selection length
// and its begin offset stored relative to the end of the previous
// caret's selection, per spec.md §4.E's representation. Absolute
// positions are reconstructed by walking the tree accumulating spans.
type caretEntry struct {
	GapBefore       ByteOffset
	Length          ByteOffset
	Backward        bool
	AlignmentColumn int // -1 if unset
	AfterSoftBreak  bool
}

type caretSummary struct {
	Span  ByteOffset // GapBefore + Length, i.e. how far the absolute end advances
	Count int64
}

func caretPolicy() sumtree.Policy[caretEntry, caretSummary] {
	return sumtree.Policy[caretEntry, caretSummary]{
		Zero: func() caretSummary { return caretSummary{} },
		Combine: func(a, b caretSummary) caretSummary {
			return caretSummary{Span: a.Span + b.Span, Count: a.Count + b.Count}
		},
		Measure: func(c caretEntry) caretSummary {
			return caretSummary{Span: c.GapBefore + c.Length, Count: 1}
		},
	}
}

// caretVal is the absolute-position working representation used while
// building, merging and patching a CursorSet; caretEntry is only the
// tree's persisted, relative-offset form.
type caretVal struct {
	Begin, End ByteOffset
	Backward   bool
	Align      int
	AfterBreak bool
}

func (v caretVal) selection() Selection {
	if v.Backward {
		return Selection{Anchor: v.End, Head: v.Begin}
	}
	return Selection{Anchor: v.Begin, Head: v.End}
}

func valFromSelection(sel Selection) caretVal {
	return caretVal{Begin: sel.Start(), End: sel.End(), Backward: sel.IsBackward(), Align: -1}
}

// values decodes the tree back into absolute-position caretVals, in
// order.
func (cs *CursorSet) values() []caretVal {
	out := make([]caretVal, 0, cs.tree.Count())
	prevEnd := ByteOffset(0)
	cs.tree.ForEach(func(e caretEntry) bool {
		begin := prevEnd + e.GapBefore
		end := begin + e.Length
		out = append(out, caretVal{Begin: begin, End: end, Backward: e.Backward, Align: e.AlignmentColumn, AfterBreak: e.AfterSoftBreak})
		prevEnd = end
		return true
	})
	return out
}

func buildCaretTree(vals []caretVal) sumtree.Tree[caretEntry, caretSummary] {
	entries := make([]caretEntry, len(vals))
	prevEnd := ByteOffset(0)
	for i, v := range vals {
		entries[i] = caretEntry{
			GapBefore:       v.Begin - prevEnd,
			Length:          v.End - v.Begin,
			Backward:        v.Backward,
			AlignmentColumn: v.Align,
			AfterSoftBreak:  v.AfterBreak,
		}
		prevEnd = v.End
	}
	return sumtree.FromSlice(caretPolicy(), entries)
}

// mergeVals sorts vals by position and merges overlapping carets, and
// carets that merely touch unless both sides have a non-zero selection
// (spec.md §4.E "Add with merge", step 1-2). A surviving merged caret is
// always forward and keeps the alignment/after-soft-break flags of the
// first caret in the group it absorbed.
func mergeVals(vals []caretVal) []caretVal {
	if len(vals) <= 1 {
		return vals
	}
	sort.Slice(vals, func(i, j int) bool {
		if vals[i].Begin != vals[j].Begin {
			return vals[i].Begin < vals[j].Begin
		}
		return vals[i].End > vals[j].End
	})

	merged := vals[:1]
	for _, v := range vals[1:] {
		last := &merged[len(merged)-1]
		overlap := v.Begin < last.End
		touch := v.Begin == last.End
		bothNonZero := last.End > last.Begin && v.End > v.Begin
		if overlap || (touch && !bothNonZero) {
			if v.Begin < last.Begin {
				last.Begin = v.Begin
			}
			if v.End > last.End {
				last.End = v.End
			}
			last.Backward = false
		} else {
			merged = append(merged, v)
		}
	}
	return merged
}
