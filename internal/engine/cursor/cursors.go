package cursor

import (
	"github.com/dshills/keystorm/internal/engine/buffer/patch"
	"github.com/dshills/keystorm/internal/engine/sumtree"
)

// CursorSet manages multiple cursors/selections (carets).
// Carets are kept sorted by position, non-overlapping, and stored as a
// sumtree keyed by each caret's offset relative to the end of the
// previous caret, per spec.md §4.E. The first caret is the "primary"
// caret. At least one caret always exists.
type CursorSet struct {
	tree sumtree.Tree[caretEntry, caretSummary]
}

// NewCursorSet creates a cursor set with a single selection.
func NewCursorSet(initial Selection) *CursorSet {
	return &CursorSet{tree: buildCaretTree([]caretVal{valFromSelection(initial)})}
}

// NewCursorSetAt creates a cursor set with a single cursor at the given offset.
func NewCursorSetAt(offset ByteOffset) *CursorSet {
	return NewCursorSet(NewCursorSelection(offset))
}

// NewCursorSetFromSlice creates a cursor set from a slice of selections.
// The selections will be normalized (sorted and merged).
func NewCursorSetFromSlice(selections []Selection) *CursorSet {
	if len(selections) == 0 {
		return NewCursorSetAt(0)
	}
	vals := make([]caretVal, len(selections))
	for i, sel := range selections {
		vals[i] = valFromSelection(sel)
	}
	return &CursorSet{tree: buildCaretTree(mergeVals(vals))}
}

// Primary returns the primary (first) selection.
func (cs *CursorSet) Primary() Selection {
	vals := cs.values()
	if len(vals) == 0 {
		return Selection{}
	}
	return vals[0].selection()
}

// PrimaryCursor returns the head offset of the primary selection.
func (cs *CursorSet) PrimaryCursor() ByteOffset {
	return cs.Primary().Head
}

// All returns a copy of all selections.
func (cs *CursorSet) All() []Selection {
	vals := cs.values()
	out := make([]Selection, len(vals))
	for i, v := range vals {
		out[i] = v.selection()
	}
	return out
}

// Count returns the number of cursors/selections.
func (cs *CursorSet) Count() int {
	return cs.tree.Count()
}

// IsMulti returns true if there are multiple selections.
func (cs *CursorSet) IsMulti() bool {
	return cs.Count() > 1
}

// Get returns the selection at the given index, or an empty selection
// if index is out of range.
func (cs *CursorSet) Get(index int) Selection {
	vals := cs.values()
	if index < 0 || index >= len(vals) {
		return Selection{}
	}
	return vals[index].selection()
}

// Add adds a new selection, merging with overlapping or touching ones
// per spec.md §4.E.
func (cs *CursorSet) Add(sel Selection) {
	vals := append(cs.values(), valFromSelection(sel))
	cs.tree = buildCaretTree(mergeVals(vals))
}

// AddAll adds multiple selections.
func (cs *CursorSet) AddAll(sels []Selection) {
	vals := cs.values()
	for _, sel := range sels {
		vals = append(vals, valFromSelection(sel))
	}
	cs.tree = buildCaretTree(mergeVals(vals))
}

// SetPrimary replaces the primary (first) selection with sel, keeping
// the others. After normalization (sorting/merging) sel is at index 0
// only if it sorts before every other caret.
func (cs *CursorSet) SetPrimary(sel Selection) {
	vals := cs.values()
	if len(vals) == 0 {
		vals = []caretVal{valFromSelection(sel)}
	} else {
		vals[0] = valFromSelection(sel)
	}
	cs.tree = buildCaretTree(mergeVals(vals))
}

// Set replaces all selections with a single selection.
func (cs *CursorSet) Set(sel Selection) {
	cs.tree = buildCaretTree([]caretVal{valFromSelection(sel)})
}

// SetAll replaces all selections.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.tree = buildCaretTree([]caretVal{valFromSelection(NewCursorSelection(0))})
		return
	}
	vals := make([]caretVal, len(sels))
	for i, sel := range sels {
		vals[i] = valFromSelection(sel)
	}
	cs.tree = buildCaretTree(mergeVals(vals))
}

// Clear removes all selections except primary.
func (cs *CursorSet) Clear() {
	vals := cs.values()
	if len(vals) > 1 {
		vals = vals[:1]
	}
	cs.tree = buildCaretTree(vals)
}

// Remove removes the selection at the given index. Removing the last
// remaining caret is an error (spec.md §4.E: at least one caret always
// exists).
func (cs *CursorSet) Remove(index int) error {
	if cs.Count() <= 1 {
		return ErrEmptyCursorSet
	}
	vals := cs.values()
	if index < 0 || index >= len(vals) {
		return nil
	}
	vals = append(vals[:index], vals[index+1:]...)
	cs.tree = buildCaretTree(vals)
	return nil
}

// RemoveLast removes the last selection in position order. Removing the
// last remaining caret is an error.
func (cs *CursorSet) RemoveLast() error {
	return cs.Remove(cs.Count() - 1)
}

// ForEach calls f for each selection with its index.
func (cs *CursorSet) ForEach(f func(index int, sel Selection)) {
	for i, v := range cs.values() {
		f(i, v.selection())
	}
}

// Map applies f to each selection and returns the results.
func (cs *CursorSet) Map(f func(sel Selection) Selection) []Selection {
	vals := cs.values()
	out := make([]Selection, len(vals))
	for i, v := range vals {
		out[i] = f(v.selection())
	}
	return out
}

// MapInPlace applies f to each selection in place, then re-merges.
func (cs *CursorSet) MapInPlace(f func(sel Selection) Selection) {
	vals := cs.values()
	out := make([]caretVal, len(vals))
	for i, v := range vals {
		nv := valFromSelection(f(v.selection()))
		nv.Align, nv.AfterBreak = v.Align, v.AfterBreak
		out[i] = nv
	}
	cs.tree = buildCaretTree(mergeVals(out))
}

// HasSelection returns true if any selection is non-empty (has extent).
func (cs *CursorSet) HasSelection() bool {
	has := false
	cs.tree.ForEach(func(e caretEntry) bool {
		if e.Length > 0 {
			has = true
			return false
		}
		return true
	})
	return has
}

// CollapseAll collapses all selections to cursors at their heads.
func (cs *CursorSet) CollapseAll() {
	cs.MapInPlace(func(sel Selection) Selection { return sel.Collapse() })
}

// Clamp clamps all selections to the valid range [0, maxOffset].
func (cs *CursorSet) Clamp(maxOffset ByteOffset) {
	cs.MapInPlace(func(sel Selection) Selection { return sel.Clamp(maxOffset) })
}

// Clone returns a copy of the cursor set. Tree is a persistent value
// type, so this is cheap and the clone is unaffected by later mutation
// of the original.
func (cs *CursorSet) Clone() *CursorSet {
	return &CursorSet{tree: cs.tree}
}

// Ranges returns all selection ranges (for operations like delete).
func (cs *CursorSet) Ranges() []Range {
	sels := cs.All()
	out := make([]Range, len(sels))
	for i, sel := range sels {
		out[i] = sel.Range()
	}
	return out
}

// SelectionRanges returns ranges only for non-empty selections.
func (cs *CursorSet) SelectionRanges() []Range {
	var out []Range
	for _, sel := range cs.All() {
		if !sel.IsEmpty() {
			out = append(out, sel.Range())
		}
	}
	return out
}

// Equals returns true if two cursor sets have the same selections.
func (cs *CursorSet) Equals(other *CursorSet) bool {
	if other == nil {
		return false
	}
	a, b := cs.All(), other.All()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// AlignmentColumn returns the visual column caret index should return
// to on vertical motion, and whether one has been recorded (spec.md
// §4.F).
func (cs *CursorSet) AlignmentColumn(index int) (column int, ok bool) {
	vals := cs.values()
	if index < 0 || index >= len(vals) || vals[index].Align < 0 {
		return 0, false
	}
	return vals[index].Align, true
}

// SetAlignmentColumn records the alignment column for caret index.
// Pass a negative column to clear it.
func (cs *CursorSet) SetAlignmentColumn(index, column int) {
	vals := cs.values()
	if index < 0 || index >= len(vals) {
		return
	}
	vals[index].Align = column
	cs.tree = buildCaretTree(vals)
}

// AfterSoftBreak reports whether caret index is flagged as sitting
// immediately after a soft line break (spec.md §4.F).
func (cs *CursorSet) AfterSoftBreak(index int) bool {
	vals := cs.values()
	if index < 0 || index >= len(vals) {
		return false
	}
	return vals[index].AfterBreak
}

// SetAfterSoftBreak sets or clears the after-soft-break flag for caret
// index.
func (cs *CursorSet) SetAfterSoftBreak(index int, after bool) {
	vals := cs.values()
	if index < 0 || index >= len(vals) {
		return
	}
	vals[index].AfterBreak = after
	cs.tree = buildCaretTree(vals)
}

// PatchUnderEdit re-projects every caret's anchor and head through an
// end_edit's byte-space patch table (buffer.EndEditEvent.PatchTable),
// then re-merges any carets the patch caused to collide (spec.md §4.E
// "Patching under edits"). Callers
// typically pass patch.Back for headStrategy (the caret sticks to the
// end of an insertion at its position) and patch.Front for
// tailStrategy (the anchor stays put). Alignment column and
// after-soft-break flags are preserved per caret.
func (cs *CursorSet) PatchUnderEdit(table patch.Table, headStrategy, tailStrategy patch.Strategy) {
	vals := cs.values()
	out := make([]caretVal, len(vals))
	for i, v := range vals {
		sel := v.selection()
		newAnchor := ByteOffset(table.Apply(int64(sel.Anchor), tailStrategy))
		newHead := ByteOffset(table.Apply(int64(sel.Head), headStrategy))
		nv := valFromSelection(Selection{Anchor: newAnchor, Head: newHead})
		nv.Align, nv.AfterBreak = v.Align, v.AfterBreak
		out[i] = nv
	}
	cs.tree = buildCaretTree(mergeVals(out))
}
