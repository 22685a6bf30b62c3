package decode

import (
	"github.com/dshills/keystorm/internal/engine/buffer"
	"github.com/dshills/keystorm/internal/engine/buffer/patch"
)

// EndModificationEvent is the character-space projection of one
// buffer.Modification, published as part of handling a buffer's
// end_edit.
type EndModificationEvent struct {
	StartCharacter     int64
	StartLine          int
	StartColumn        int
	RemovedCharacters  int64
	InsertedCharacters int64
}

// EndEditEvent aggregates every EndModificationEvent produced while
// handling one buffer.EndEditEvent, plus a character-space patch.Table
// equivalent to the buffer's byte-space one.
type EndEditEvent struct {
	EditType      buffer.EditType
	Source        string
	Modifications []EndModificationEvent
	PatchTable    patch.Table
}
