// Package engine provides the core text editor engine for Keystorm.
//
// The engine package is the top-level facade over a document: it owns a
// buffer.Buffer, a decode.Interpretation decoding it, and the
// cursor/fold/wrap/decoration registries layered on top, wiring them
// into a single observer chain so every edit made through Engine keeps
// carets, folds, soft wraps and decorations in sync automatically.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - sumtree: generic persistent B+ tree used as the storage backbone
//     throughout
//   - buffer: rope-backed text storage, position conversion, its own
//     undo/redo history, and the begin_edit/end_edit event pair every
//     other layer patches itself from
//   - decode: byte/codepoint/character/line interpretation of a buffer's
//     bytes under a chosen encoding.Descriptor
//   - cursor: multi-caret selection set, re-projected across edits via
//     the buffer's own byte-space patch table
//   - fold: collapsed-region registry, re-projected across edits via a
//     cache-then-reproject fixup against the interpretation's
//     character/byte conversions
//   - wrap: soft line-break registry and visual-line view, re-projected
//     across edits via the interpretation's character-space patch table
//   - decoration: overlapping styled-range registry, re-projected the
//     same way as wrap
//
// # Thread Safety
//
// All Engine operations are thread-safe. The engine uses a read-write
// mutex to allow concurrent reads while serializing writes. Multiple
// goroutines can safely call read operations like Text(), LineText(), or
// OffsetToPoint() simultaneously.
//
// # Basic Usage
//
// Create an engine and perform basic edits:
//
//	// Create a new engine
//	e := engine.New()
//
//	// Insert text
//	e.Insert(0, "Hello, World!")
//
//	// Read content
//	text := e.Text() // "Hello, World!"
//
//	// Replace text
//	e.Replace(7, 12, "Go") // "Hello, Go!"
//
//	// Undo the replacement
//	e.Undo() // "Hello, World!"
//
// # Loading Files
//
// Create an engine from existing content:
//
//	// From a string
//	e := engine.New(engine.WithContent("initial content"))
//
//	// From a reader (file, network, etc.)
//	f, _ := os.Open("file.txt")
//	defer f.Close()
//	e, _ := engine.NewFromReader(f)
//
//	// From a named file source (any buffer.FileSource), giving the
//	// buffer an Identity
//	e, _ = engine.NewFromSource(src)
//
// # Multi-Cursor Support
//
// The engine owns one cursor.CursorSet, re-projected across every edit:
//
//	e := engine.New(engine.WithContent("foo bar foo"))
//
//	cs := e.Cursors()
//	cs.Add(cursor.NewCursorSelection(8))
//	e.SetCursors(cs)
//
//	e.Insert(0, "X") // both carets shift right by one byte automatically
//
// # Undo/Redo
//
// The engine delegates undo/redo to the buffer's own history, which
// replays modifications through the same begin_edit/end_edit pipeline as
// a live edit, so cursors/folds/wraps/decorations stay in sync across
// Undo and Redo too:
//
//	e := engine.New()
//	e.Insert(0, "Hello")
//	e.Insert(5, " World")
//
//	e.Undo() // Removes " World"
//	e.Undo() // Removes "Hello"
//	e.Redo() // Restores "Hello"
//
// # Folding
//
// Collapse a range of hard lines to a single visual line:
//
//	e := engine.New(engine.WithContent("a\nb\nc\nd\n"))
//	e.AddFold(2, 6, 1, 2) // lines 1-2 collapse onto one visual line
//
//	visual := e.VisualLineOfChar(7) // accounts for the fold
//
// # Configuration
//
// Configure the engine at creation time:
//
//	e := engine.New(
//	    engine.WithContent("initial"),
//	    engine.WithTabWidth(4),
//	    engine.WithLineEnding(engine.LineEndingLF),
//	    engine.WithMaxUndoEntries(1000),
//	    engine.WithEncoding(encoding.UTF16LE),
//	    engine.WithLogger(slog.Default()),
//	)
//
// Or modify configuration at runtime:
//
//	e.SetTabWidth(2)
//	e.SetLineEnding(engine.LineEndingCRLF)
//
// # Read-Only Mode
//
// Create a read-only engine that rejects write operations:
//
//	e := engine.New(
//	    engine.WithContent("read-only content"),
//	    engine.WithReadOnly(),
//	)
//
//	_, err := e.Insert(0, "text")
//	// err == engine.ErrReadOnly
//
// # Position Conversion
//
// Convert between different position representations:
//
//	e := engine.New(engine.WithContent("line 1\nline 2"))
//
//	// Byte offset to line/column
//	point := e.OffsetToPoint(7) // Point{Line: 1, Column: 0}
//
//	// Line/column to byte offset
//	offset := e.PointToOffset(engine.Point{Line: 1, Column: 0}) // 7
//
//	// Byte offset to character index (CRLF counts as one character)
//	ch := e.ByteToCharacter(offset)
//
// # Error Handling
//
// The package defines several sentinel errors:
//
//   - ErrOffsetOutOfRange: Invalid byte offset
//   - ErrRangeInvalid: Invalid range (e.g., end < start)
//   - ErrEditsOverlap: Batch edits overlap or are not in reverse order
//   - ErrNothingToUndo: Undo stack is empty
//   - ErrNothingToRedo: Redo stack is empty
//   - ErrReadOnly: Write operation on read-only engine
package engine
