package engine

import (
	"errors"

	"github.com/dshills/keystorm/internal/engine/buffer"
)

// Errors returned by engine operations. The ones with a direct
// buffer-level equivalent are aliased to it, so a caller comparing
// against engine.Err* also matches what errors.Is sees bubble up
// straight from the buffer.
var (
	// ErrOffsetOutOfRange indicates an offset is outside the valid buffer range.
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrEditsOverlap indicates edits overlap or are not in reverse order.
	ErrEditsOverlap = buffer.ErrEditsOverlap

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("engine: nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("engine: nothing to redo")

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine: read-only")
)
