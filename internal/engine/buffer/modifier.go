package buffer

import (
	"errors"

	"github.com/dshills/keystorm/internal/engine/buffer/patch"
	"github.com/dshills/keystorm/internal/engine/rope"
)

// ErrBadPosition is returned when a Modifier call addresses a byte
// position outside the buffer, or when the modifier is used after End.
var ErrBadPosition = errors.New("buffer: bad position")

// Modifier is a scoped handle to one edit. Obtain one with
// Buffer.BeginEdit; issue zero or more Modify/ModifyRaw calls in
// non-decreasing position order, then call End to commit.
//
// A Modifier holds the buffer's write lock for its entire lifetime: no
// other goroutine can read or write the buffer until End is called. This
// mirrors the single-threaded, cooperative scheduling model the core
// assumes — all mutation and all observer callbacks run on the thread
// that opened the edit.
type Modifier struct {
	buf           *Buffer
	editType      EditType
	source        string
	runningOffset ByteOffset
	lastOrigPos   ByteOffset
	modifications []Modification
	ended         bool
}

// BeginEdit opens a scoped edit and publishes BeginEditEvent
// immediately. The caller must call End (directly or via defer) exactly
// once.
func (b *Buffer) BeginEdit(editType EditType, source string) *Modifier {
	b.mu.Lock()
	b.beginEditSink.Publish(BeginEditEvent{EditType: editType, Source: source})
	return &Modifier{buf: b, editType: editType, source: source}
}

// Modify replaces eraseLen bytes starting at pos with insertBytes. pos is
// in the coordinate space after every earlier Modify/ModifyRaw call in
// this same edit (i.e. the buffer's current live position); calls must
// be issued in non-decreasing such positions.
func (m *Modifier) Modify(pos, eraseLen ByteOffset, insertBytes string) error {
	if m.ended {
		return ErrBadPosition
	}
	origPos := pos - m.runningOffset
	return m.apply(pos, origPos, eraseLen, insertBytes)
}

// ModifyRaw replaces eraseLen bytes starting at pos (a pre-edit position,
// unaffected by earlier modifications in this same edit) with
// insertBytes. The modifier adds its internal running offset to locate
// the corresponding live buffer position.
func (m *Modifier) ModifyRaw(pos, eraseLen ByteOffset, insertBytes string) error {
	if m.ended {
		return ErrBadPosition
	}
	applyPos := pos + m.runningOffset
	return m.apply(applyPos, pos, eraseLen, insertBytes)
}

func (m *Modifier) apply(applyPos, origPos, eraseLen ByteOffset, insertBytes string) error {
	b := m.buf
	ropeLen := ByteOffset(b.rope.Len())
	if applyPos < 0 || applyPos > ropeLen || applyPos+eraseLen > ropeLen {
		return ErrBadPosition
	}
	if len(m.modifications) > 0 && origPos < m.lastOrigPos {
		return ErrBadPosition
	}

	// insertBytes is written as given, with no line-ending normalization:
	// normalizeLineEndings only runs on the initial file-load path
	// (NewBufferFromString/NewBufferFromReader/NewBufferFromSource), so
	// that an edit can insert or erase a bare CR to split or merge a CRLF
	// pair (decode handles the character-level consequences).
	oldText := b.rope.Slice(rope.ByteOffset(applyPos), rope.ByteOffset(applyPos+eraseLen))
	b.rope = b.rope.Replace(rope.ByteOffset(applyPos), rope.ByteOffset(applyPos+eraseLen), insertBytes)

	m.modifications = append(m.modifications, Modification{
		Position: origPos,
		Removed:  eraseLen,
		Inserted: ByteOffset(len(insertBytes)),
		OldText:  oldText,
		NewText:  insertBytes,
	})
	m.runningOffset += ByteOffset(len(insertBytes)) - eraseLen
	m.lastOrigPos = origPos
	return nil
}

// End commits the edit: pushes a new history entry, truncates the redo
// tail, bumps the revision, and publishes EndEditEvent. It is a no-op if
// already called.
func (m *Modifier) End() EndEditEvent {
	if m.ended {
		return EndEditEvent{}
	}
	m.ended = true
	b := m.buf
	defer b.mu.Unlock()

	b.revisionID = NewRevisionID()

	entries := make([]patch.Entry, len(m.modifications))
	for i, mod := range m.modifications {
		entries[i] = patch.Entry{Position: int64(mod.Position), Removed: int64(mod.Removed), Inserted: int64(mod.Inserted)}
	}
	table := patch.NewTable(entries)

	if m.editType != EditUndo && m.editType != EditRedo && len(m.modifications) > 0 {
		b.history.push(undoEntry{modifications: m.modifications})
	}

	ev := EndEditEvent{
		EditType:      m.editType,
		Source:        m.source,
		Modifications: m.modifications,
		PatchTable:    table,
	}
	b.endEditSink.Publish(ev)
	return ev
}
