package buffer

import (
	"github.com/dshills/keystorm/internal/engine/buffer/patch"
	"github.com/dshills/keystorm/internal/engine/events"
)

// EditType classifies why an edit scope was opened.
type EditType string

// Built-in edit types. Callers of BeginEdit may use any other string for
// application-specific edit sources (e.g. "paste", "format"); Undo and
// Redo are reserved for Buffer.Undo/Buffer.Redo.
const (
	EditInsert  EditType = "insert"
	EditDelete  EditType = "delete"
	EditReplace EditType = "replace"
	EditMixed   EditType = "mixed"
	EditUndo    EditType = "undo"
	EditRedo    EditType = "redo"
)

// Modification describes one buffer.Modifier.Modify/ModifyRaw call within
// a committed edit, recorded in pre-edit byte coordinates.
type Modification struct {
	Position ByteOffset
	Removed  ByteOffset
	Inserted ByteOffset
	OldText  string
	NewText  string
}

// BeginEditEvent is published synchronously by BeginEdit, before any byte
// mutation.
type BeginEditEvent struct {
	EditType EditType
	Source   string
}

// EndEditEvent is published synchronously by Modifier.End, after the
// edit has been committed to history.
type EndEditEvent struct {
	EditType      EditType
	Source        string
	Modifications []Modification
	PatchTable    patch.Table
}

// OnBeginEdit registers handler to run on every begin_edit. Returns a
// Token for Buffer.RemoveBeginEditHandler.
func (b *Buffer) OnBeginEdit(handler func(BeginEditEvent)) events.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beginEditSink.Subscribe(handler)
}

// RemoveBeginEditHandler unregisters a handler added by OnBeginEdit.
func (b *Buffer) RemoveBeginEditHandler(tok events.Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beginEditSink.Remove(tok)
}

// OnEndEdit registers handler to run on every end_edit.
func (b *Buffer) OnEndEdit(handler func(EndEditEvent)) events.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.endEditSink.Subscribe(handler)
}

// RemoveEndEditHandler unregisters a handler added by OnEndEdit.
func (b *Buffer) RemoveEndEditHandler(tok events.Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endEditSink.Remove(tok)
}
