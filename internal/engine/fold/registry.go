package fold

import (
	"errors"
	"sort"

	"github.com/dshills/keystorm/internal/engine/buffer/patch"
	"github.com/dshills/keystorm/internal/engine/sumtree"
)

// ErrEmptyRange is returned by Add when the given range has no extent.
var ErrEmptyRange = errors.New("fold: cannot fold an empty range")

// Endpoint selects whether FindRegionContaining treats a fold's bounds as
// open or closed, per spec.md §4.F / DESIGN.md's resolved tie-break: Open
// excludes both endpoints; Closed includes both, so two folds that touch
// at a boundary point never both match an Open query there, while a
// Closed query at a touching boundary matches whichever fold is earlier
// in tree order.
type Endpoint int

const (
	Open Endpoint = iota
	Closed
)

// Converter translates between character offsets and byte offsets, the
// collaborator fold needs to survive an edit: decode.Interpretation
// satisfies this directly.
type Converter interface {
	CharacterToByte(character int) int64
	ByteToCharacter(b int64) int
}

// foldEntry is one collapsed region, stored relative to the previous
// fold's end (spec.md §3's gap/length/gap_lines/folded_lines record).
type foldEntry struct {
	GapBefore   int // characters between the previous fold's end and this fold's start
	Length      int // characters folded
	GapLines    int // hard line breaks within GapBefore
	FoldedLines int // hard lines the folded region covers; it hides FoldedLines-1 of them
}

type foldSummary struct {
	CharSpan    int // GapBefore+Length, cumulative
	HiddenLines int // cumulative (FoldedLines-1), the visual lines each fold removes
	Count       int64
}

func foldPolicy() sumtree.Policy[foldEntry, foldSummary] {
	return sumtree.Policy[foldEntry, foldSummary]{
		Zero: func() foldSummary { return foldSummary{} },
		Combine: func(a, b foldSummary) foldSummary {
			return foldSummary{CharSpan: a.CharSpan + b.CharSpan, HiddenLines: a.HiddenLines + b.HiddenLines, Count: a.Count + b.Count}
		},
		Measure: func(e foldEntry) foldSummary {
			hidden := e.FoldedLines - 1
			if hidden < 0 {
				hidden = 0
			}
			return foldSummary{CharSpan: e.GapBefore + e.Length, HiddenLines: hidden, Count: 1}
		},
	}
}

// Region is the absolute-position view of one fold.
type Region struct {
	Start, End  int // character offsets
	StartLine   int // absolute unfolded hard-line index the fold begins on
	GapLines    int // hard line breaks between the previous fold's end and this one's start
	FoldedLines int // hard lines the folded region covers; it hides FoldedLines-1 of them
}

// Registry holds a set of non-overlapping folded regions over character
// positions.
type Registry struct {
	tree sumtree.Tree[foldEntry, foldSummary]
}

// New returns an empty fold registry.
func New() *Registry {
	return &Registry{tree: sumtree.New(foldPolicy())}
}

// Count returns the number of folds.
func (r *Registry) Count() int { return r.tree.Count() }

// All returns every fold, ordered by start.
func (r *Registry) All() []Region { return regionsFromTree(r.tree) }

func regionsFromTree(t sumtree.Tree[foldEntry, foldSummary]) []Region {
	out := make([]Region, 0, t.Count())
	start, line := 0, 0
	t.ForEach(func(e foldEntry) bool {
		start += e.GapBefore
		line += e.GapLines
		out = append(out, Region{Start: start, End: start + e.Length, StartLine: line, GapLines: e.GapLines, FoldedLines: e.FoldedLines})
		start += e.Length
		line += e.FoldedLines
		return true
	})
	return out
}

// buildFoldTree rebuilds the tree from regions sorted by Start. Each
// Region's GapLines is the hard-line count between the previous region's
// end and its own start (the delta the tree actually stores); StartLine
// is recomputed from that delta on the next regionsFromTree call and
// need not be supplied accurately by the caller.
func buildFoldTree(regions []Region) sumtree.Tree[foldEntry, foldSummary] {
	entries := make([]foldEntry, len(regions))
	prevEnd := 0
	for i, reg := range regions {
		entries[i] = foldEntry{
			GapBefore:   reg.Start - prevEnd,
			Length:      reg.End - reg.Start,
			GapLines:    reg.GapLines,
			FoldedLines: reg.FoldedLines,
		}
		prevEnd = reg.End
	}
	return sumtree.FromSlice(foldPolicy(), entries)
}

// Add folds [start, end), with gapLines the hard line breaks in the gap
// before it and foldedLines the hard lines it covers. Any
// existing fold fully or partially inside [start, end) is deleted and
// absorbed into the new fold's range (spec.md §4.F "add").
func (r *Registry) Add(start, end, gapLines, foldedLines int) error {
	if end <= start {
		return ErrEmptyRange
	}
	regions := regionsFromTree(r.tree)
	kept := regions[:0:0]
	for _, reg := range regions {
		if reg.End <= start || reg.Start >= end {
			kept = append(kept, reg)
		}
	}
	kept = append(kept, Region{Start: start, End: end, GapLines: gapLines, FoldedLines: foldedLines})
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	r.tree = buildFoldTree(kept)
	return nil
}

// Remove deletes the fold at index i (as returned by All), a no-op if i
// is out of range.
func (r *Registry) Remove(i int) {
	regions := regionsFromTree(r.tree)
	if i < 0 || i >= len(regions) {
		return
	}
	regions = append(regions[:i], regions[i+1:]...)
	r.tree = buildFoldTree(regions)
}

// FindRegionContaining returns the fold whose interval contains pos,
// using endpoint to decide whether the fold's own bounds are inclusive.
func (r *Registry) FindRegionContaining(pos int, endpoint Endpoint) (Region, bool) {
	for _, reg := range regionsFromTree(r.tree) {
		switch endpoint {
		case Closed:
			if pos >= reg.Start && pos <= reg.End {
				return reg, true
			}
		default:
			if pos > reg.Start && pos < reg.End {
				return reg, true
			}
		}
	}
	return Region{}, false
}

// UnfoldedLineToFoldedLine converts a hard-line index in unfolded
// (document) coordinates to its visual index once folds collapse their
// regions to a single line each.
func (r *Registry) UnfoldedLineToFoldedLine(unfolded int) int {
	hidden := 0
	for _, reg := range regionsFromTree(r.tree) {
		if reg.FoldedLines <= 1 {
			continue
		}
		end := reg.StartLine + reg.FoldedLines
		switch {
		case unfolded >= end:
			// The fold lies entirely at or before the queried line:
			// it has already collapsed FoldedLines-1 lines out of view.
			hidden += reg.FoldedLines - 1
		case unfolded > reg.StartLine:
			// The queried line is one of the fold's own hidden interior
			// lines: it collapses onto the fold's start line.
			hidden += unfolded - reg.StartLine
		}
	}
	return unfolded - hidden
}

// FoldedLineToUnfoldedLine is the inverse of UnfoldedLineToFoldedLine.
func (r *Registry) FoldedLineToUnfoldedLine(folded int) int {
	unfolded := folded
	for {
		candidate := r.UnfoldedLineToFoldedLine(unfolded)
		if candidate >= folded {
			break
		}
		unfolded++
	}
	return unfolded
}

// FixupCache holds every fold's byte bounds as captured by BeginFixup,
// ahead of an edit whose effects EndFixup will later re-project them
// across. Callers hold this value between a buffer's begin_edit and
// end_edit without needing to inspect its fields.
type FixupCache struct {
	startByte, endByte    int64
	gapLines, foldedLines int
}

// BeginFixup caches every fold's byte bounds ahead of an edit, via conv.
func (r *Registry) BeginFixup(conv Converter) []FixupCache {
	regions := regionsFromTree(r.tree)
	out := make([]FixupCache, len(regions))
	for i, reg := range regions {
		out[i] = FixupCache{
			startByte:   conv.CharacterToByte(reg.Start),
			endByte:     conv.CharacterToByte(reg.End),
			gapLines:    reg.GapLines,
			foldedLines: reg.FoldedLines,
		}
	}
	return out
}

// EndFixup re-projects cached byte bounds through table (the edit's
// byte-space patch table), converts back to characters via conv, and
// rebuilds the registry. Folds whose re-projected range is empty are
// dropped, per spec.md §4.F.
func (r *Registry) EndFixup(cached []FixupCache, table patch.Table, conv Converter) {
	regions := make([]Region, 0, len(cached))
	for _, c := range cached {
		newStartByte := table.Apply(c.startByte, patch.Front)
		newEndByte := table.Apply(c.endByte, patch.Back)
		start := conv.ByteToCharacter(newStartByte)
		end := conv.ByteToCharacter(newEndByte)
		if end <= start {
			continue
		}
		regions = append(regions, Region{Start: start, End: end, GapLines: c.gapLines, FoldedLines: c.foldedLines})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Start < regions[j].Start })
	r.tree = buildFoldTree(regions)
}
