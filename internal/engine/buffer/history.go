package buffer

// undoEntry is one committed edit: the modifications applied, in
// pre-edit byte order, exactly as recorded by the Modifier that produced
// them.
type undoEntry struct {
	modifications []Modification
}

// history is the buffer's linear undo/redo log: a vector of committed
// entries plus a cursor, following the teacher's Command-stack shape
// (internal/engine/history/stack.go) but collapsed onto the buffer's own
// byte-level modification records instead of a separate Command
// interface, since this spec attributes undo ownership to the buffer
// itself.
type history struct {
	entries    []undoEntry
	cur        int // index one past the last applied entry
	maxEntries int
}

func newHistory(maxEntries int) *history {
	return &history{maxEntries: maxEntries}
}

// push appends entry as the new top of the undo stack, discarding any
// redo tail and the oldest entry once maxEntries is exceeded.
func (h *history) push(entry undoEntry) {
	h.entries = append(h.entries[:h.cur], entry)
	h.cur = len(h.entries)
	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		drop := len(h.entries) - h.maxEntries
		h.entries = h.entries[drop:]
		h.cur = len(h.entries)
	}
}

func (h *history) canUndo() bool { return h.cur > 0 }
func (h *history) canRedo() bool { return h.cur < len(h.entries) }

// popUndo returns the entry to undo and moves the cursor back over it.
func (h *history) popUndo() (undoEntry, bool) {
	if !h.canUndo() {
		return undoEntry{}, false
	}
	h.cur--
	return h.entries[h.cur], true
}

// popRedo returns the entry to redo and moves the cursor forward over it.
func (h *history) popRedo() (undoEntry, bool) {
	if !h.canRedo() {
		return undoEntry{}, false
	}
	entry := h.entries[h.cur]
	h.cur++
	return entry, true
}

func (h *history) undoCount() int { return h.cur }
func (h *history) redoCount() int { return len(h.entries) - h.cur }

// invert returns the modification list that, applied left to right in
// pre-edit byte order over the buffer state that existed just after
// entry was committed, restores the state just before it. Erased and
// inserted sides are swapped; positions are re-derived so the inverted
// modifications are themselves valid pre-edit positions against the
// post-entry buffer.
func (entry undoEntry) invert() []Modification {
	inverted := make([]Modification, len(entry.modifications))
	var delta ByteOffset
	for i, mod := range entry.modifications {
		newPos := mod.Position + delta
		inverted[i] = Modification{
			Position: newPos,
			Removed:  mod.Inserted,
			Inserted: mod.Removed,
			OldText:  mod.NewText,
			NewText:  mod.OldText,
		}
		delta += mod.Inserted - mod.Removed
	}
	return inverted
}
