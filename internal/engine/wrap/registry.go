package wrap

import (
	"sort"

	"github.com/dshills/keystorm/internal/engine/sumtree"
)

// breakEntry is one soft line break, stored as the character run length
// since the previous soft break (or since the start of the document for
// the first one).
type breakEntry struct {
	RunLength int
}

type breakSummary struct {
	CharSpan int
	Count    int64
}

func breakPolicy() sumtree.Policy[breakEntry, breakSummary] {
	return sumtree.Policy[breakEntry, breakSummary]{
		Zero: func() breakSummary { return breakSummary{} },
		Combine: func(a, b breakSummary) breakSummary {
			return breakSummary{CharSpan: a.CharSpan + b.CharSpan, Count: a.Count + b.Count}
		},
		Measure: func(e breakEntry) breakSummary {
			return breakSummary{CharSpan: e.RunLength, Count: 1}
		},
	}
}

// Registry holds the set of soft line break positions (character
// offsets) introduced by column-based wrapping.
type Registry struct {
	tree sumtree.Tree[breakEntry, breakSummary]
}

// New returns an empty soft-break registry.
func New() *Registry {
	return &Registry{tree: sumtree.New(breakPolicy())}
}

// Count returns the number of soft breaks.
func (r *Registry) Count() int { return r.tree.Count() }

// All returns every soft break position, ascending.
func (r *Registry) All() []int {
	out := make([]int, 0, r.tree.Count())
	pos := 0
	r.tree.ForEach(func(e breakEntry) bool {
		pos += e.RunLength
		out = append(out, pos)
		return true
	})
	return out
}

func (r *Registry) rebuild(positions []int) {
	sort.Ints(positions)
	entries := make([]breakEntry, len(positions))
	prev := 0
	for i, pos := range positions {
		entries[i] = breakEntry{RunLength: pos - prev}
		prev = pos
	}
	r.tree = sumtree.FromSlice(breakPolicy(), entries)
}

// Insert adds a soft break at pos, if one is not already there.
func (r *Registry) Insert(pos int) {
	positions := r.All()
	i := sort.SearchInts(positions, pos)
	if i < len(positions) && positions[i] == pos {
		return
	}
	positions = append(positions, pos)
	r.rebuild(positions)
}

// Clear removes every soft break (e.g. before re-wrapping after a width
// change).
func (r *Registry) Clear() {
	r.tree = sumtree.New(breakPolicy())
}

// SetAll replaces every soft break with positions, which need not be
// sorted or deduplicated.
func (r *Registry) SetAll(positions []int) {
	cp := append([]int(nil), positions...)
	r.rebuild(dedupe(cp))
}

func dedupe(sorted []int) []int {
	sort.Ints(sorted)
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// SoftBreaksBefore returns the number of soft breaks strictly before c.
func (r *Registry) SoftBreaksBefore(c int) int {
	n := 0
	for _, pos := range r.All() {
		if pos < c {
			n++
		} else {
			break
		}
	}
	return n
}

// BreaksInRange returns every soft break in [start, end), ascending.
func (r *Registry) BreaksInRange(start, end int) []int {
	var out []int
	for _, pos := range r.All() {
		if pos >= start && pos < end {
			out = append(out, pos)
		}
	}
	return out
}

// Reproject shifts every soft break position by an edit at pos that
// removed `removed` characters and inserted `inserted`, dropping breaks
// that fell inside the removed range (spec.md §4.F: soft breaks are
// recomputed, not preserved verbatim, but a coarse shift keeps the
// registry usable until the next re-wrap pass).
func (r *Registry) Reproject(pos, removed, inserted int) {
	editEnd := pos + removed
	delta := inserted - removed
	var out []int
	for _, b := range r.All() {
		switch {
		case b <= pos:
			out = append(out, b)
		case b >= editEnd:
			out = append(out, b+delta)
		}
	}
	r.rebuild(out)
}
