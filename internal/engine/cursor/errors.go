package cursor

import "errors"

// ErrEmptyCursorSet is returned by Remove/RemoveLast when the removal
// would leave the set with no carets. At least one caret must exist at
// all times.
var ErrEmptyCursorSet = errors.New("cursor: cannot remove the last caret")
