// Package patch implements the position-patch table emitted by an edit:
// an ordered list of (position, removed, inserted) entries that lets an
// observer re-project a position captured before the edit into the
// coordinate space after it, without re-resolving against the buffer.
package patch

// Strategy selects how a position that falls inside a modified range is
// re-projected.
type Strategy int

const (
	// Front collapses the position onto the start of the modification's
	// replacement range.
	Front Strategy = iota
	// Back collapses the position onto the end of the modification's
	// replacement range.
	Back
	// TryKeep preserves the position's relative offset into the
	// replacement text when the replacement is at least as long as the
	// offset into the erased range, falling back to Back otherwise.
	TryKeep
)

// Entry records one modification: it began at Position (in the
// coordinate space before any modification in the same table was
// applied), erased Removed units, and inserted Inserted units.
type Entry struct {
	Position int64
	Removed  int64
	Inserted int64
}

// End returns the exclusive end of the erased range, in pre-edit
// coordinates.
func (e Entry) End() int64 { return e.Position + e.Removed }

// Table is an ordered, non-overlapping sequence of Entry values, earliest
// position first.
type Table struct {
	entries []Entry
}

// NewTable builds a Table from entries already in non-decreasing
// position order.
func NewTable(entries []Entry) Table {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return Table{entries: cp}
}

// Entries returns the table's entries in order.
func (t Table) Entries() []Entry {
	return t.entries
}

// IsEmpty reports whether the table has no entries.
func (t Table) IsEmpty() bool { return len(t.entries) == 0 }

// Apply re-projects pos (a pre-edit position) through the table using
// strategy for positions that fall inside a modified range.
func (t Table) Apply(pos int64, strategy Strategy) int64 {
	var delta int64
	for _, e := range t.entries {
		if pos < e.Position {
			return pos + delta
		}
		if pos >= e.End() {
			delta += e.Inserted - e.Removed
			continue
		}
		// pos falls inside [e.Position, e.End()): the modified range.
		newStart := e.Position + delta
		switch strategy {
		case Front:
			return newStart
		case Back:
			return newStart + e.Inserted
		case TryKeep:
			offset := pos - e.Position
			if offset <= e.Inserted {
				return newStart + offset
			}
			return newStart + e.Inserted
		default:
			return newStart + e.Inserted
		}
	}
	return pos + delta
}
