package decoration

import (
	"sort"

	"github.com/dshills/keystorm/internal/engine/sumtree"
)

// Registry is a queryable set of styled, possibly-overlapping ranges.
// Unlike CursorSet and fold.Registry, decorations are explicitly allowed
// to overlap (a diagnostic underline and a syntax color commonly cover
// the same bytes), so Insert never merges entries — it only keeps them
// ordered by Start for the tree's relative-offset encoding.
//
// Mutation (Insert/Erase/OnModification) rebuilds the underlying sumtree
// from a decoded slice rather than splicing in place, the same
// accepted-tradeoff already used by sumtree's own mutators, decode, and
// cursor: one obviously-correct code path traded against the windowed
// incremental algorithm spec.md §4.D describes.
type Registry struct {
	tree sumtree.Tree[rangeEntry, rangeSummary]
}

// New returns an empty decoration registry.
func New() *Registry {
	return &Registry{tree: sumtree.New(rangePolicy())}
}

// Count returns the number of decorations in the registry.
func (r *Registry) Count() int { return r.tree.Count() }

// All returns every decoration, ordered by start.
func (r *Registry) All() []Decoration { return valsFromTree(r.tree) }

// Insert adds a styled range [start, start+length). Ranges may overlap
// or repeat; nothing is merged.
func (r *Registry) Insert(start, length Offset, style Style) {
	if length < 0 {
		length = 0
	}
	vals := valsFromTree(r.tree)
	vals = append(vals, Decoration{Start: start, End: start + length, Style: style})
	sort.SliceStable(vals, func(i, j int) bool { return vals[i].Start < vals[j].Start })
	r.tree = buildRangeTree(vals)
}

// Erase removes the decoration at index i (as returned by All), in
// start order. It is a no-op if i is out of range.
func (r *Registry) Erase(i int) {
	vals := valsFromTree(r.tree)
	if i < 0 || i >= len(vals) {
		return
	}
	vals = append(vals[:i], vals[i+1:]...)
	r.tree = buildRangeTree(vals)
}

// FindIntersecting returns every decoration whose range contains point (start ≤ point < end), ordered by start.
func (r *Registry) FindIntersecting(point Offset) []Decoration {
	var out []Decoration
	for _, v := range valsFromTree(r.tree) {
		if v.Start <= point && point < v.End {
			out = append(out, v)
		}
	}
	return out
}

// FindIntersectingRange returns every decoration overlapping [start, end),
// ordered by start.
func (r *Registry) FindIntersectingRange(start, end Offset) []Decoration {
	var out []Decoration
	for _, v := range valsFromTree(r.tree) {
		if v.Start < end && start < v.End {
			out = append(out, v)
		}
	}
	return out
}

// OnModification re-projects every decoration across an edit that removed
// `removed` units at `pos` and inserted `inserted` units in their place,
// per spec.md §4.D's four cases: a decoration fully before the edit is
// untouched; fully inside the edit is dropped; overlapping the edit
// becomes [min(start, pos), end'), covering the inserted text, where end'
// is end+inserted-removed if it ended past the removed range and
// pos+inserted otherwise; fully after the edit has its bounds shifted by
// inserted-removed.
func (r *Registry) OnModification(pos, removed, inserted Offset) {
	editEnd := pos + removed
	delta := inserted - removed

	vals := valsFromTree(r.tree)
	out := make([]Decoration, 0, len(vals))
	for _, v := range vals {
		switch {
		case v.End <= pos:
			// Fully before: untouched.
			out = append(out, v)
		case v.Start >= editEnd:
			// Fully after: shift.
			v.Start += delta
			v.End += delta
			out = append(out, v)
		case v.Start >= pos && v.End <= editEnd:
			// Fully inside the removed range: dropped.
		default:
			// Overlapping: truncate to the surviving portion, then
			// extend across the inserted text.
			start := v.Start
			if start > pos {
				start = pos
			}
			end := v.End
			if end > editEnd {
				end = end + delta
			} else {
				end = pos + inserted
			}
			if end > start {
				out = append(out, Decoration{Start: start, End: end, Style: v.Style})
			}
		}
	}
	r.tree = buildRangeTree(out)
}
