package engine

import (
	"io"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/dshills/keystorm/internal/engine/buffer"
	"github.com/dshills/keystorm/internal/engine/buffer/patch"
	"github.com/dshills/keystorm/internal/engine/cursor"
	"github.com/dshills/keystorm/internal/engine/decode"
	"github.com/dshills/keystorm/internal/engine/decoration"
	"github.com/dshills/keystorm/internal/engine/encoding"
	"github.com/dshills/keystorm/internal/engine/events"
	"github.com/dshills/keystorm/internal/engine/fold"
	"github.com/dshills/keystorm/internal/engine/wrap"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// PointUTF16 represents a UTF-16 line/column position (for LSP).
	PointUTF16 = buffer.PointUTF16

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// EditResult reports the outcome of an applied Edit.
	EditResult = buffer.EditResult

	// LineEnding is the line-terminator convention a buffer normalizes to.
	LineEnding = buffer.LineEnding

	// RevisionID identifies a buffer's edit history position.
	RevisionID = buffer.RevisionID

	// Identity identifies a buffer's backing file, or lack of one.
	Identity = buffer.Identity

	// FileSource describes the file a buffer is loaded from.
	FileSource = buffer.FileSource

	// Snapshot is a read-only, structurally-shared view of a buffer's
	// text at a point in time.
	Snapshot = buffer.Snapshot

	// Selection is a caret with an anchor and head, in buffer bytes.
	Selection = cursor.Selection

	// Region describes one folded range of the document.
	Region = fold.Region

	// FoldEndpoint selects inclusive/exclusive fold-boundary matching.
	FoldEndpoint = fold.Endpoint

	// Decoration is one styled range over the document.
	Decoration = decoration.Decoration

	// Style is a blendable foreground/background/attribute style.
	Style = decoration.Style
)

// Line ending constants, re-exported from buffer.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// Fold endpoint constants, re-exported from fold.
const (
	FoldOpen   = fold.Open
	FoldClosed = fold.Closed
)

// Engine is the top-level facade over a document: one buffer.Buffer, one
// decode.Interpretation decoding it, and the cursor/fold/wrap/decoration
// registries layered on top, wired together so that every edit made
// through Engine keeps all five in sync automatically (spec.md §5).
//
// Engine itself holds no text or position state beyond its collaborators;
// its job is construction, the event wiring between them, and a
// convenience API so callers don't have to reach into each sub-package
// directly. All exported methods are safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	buf    *buffer.Buffer
	desc   encoding.Descriptor
	interp *decode.Interpretation

	cursors     *cursor.CursorSet
	folds       *fold.Registry
	wraps       *wrap.Registry
	decorations *decoration.Registry
	view        *wrap.View

	logger   *slog.Logger
	readOnly bool

	initContent    string
	tabWidth       int
	lineEnding     buffer.LineEnding
	maxUndoEntries int

	beginEditTok events.Token
	endEditTok   events.Token
	interpTok    events.Token

	pendingFixup []fold.FixupCache
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		desc:           encoding.UTF8,
		logger:         slog.Default(),
		tabWidth:       DefaultTabWidth,
		lineEnding:     buffer.LineEndingLF,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) bufOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithTabWidth(e.tabWidth),
		buffer.WithLineEnding(e.lineEnding),
		buffer.WithMaxUndoEntries(e.maxUndoEntries),
	}
}

// New creates an Engine with an empty (or WithContent-seeded) in-memory
// buffer.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent, e.bufOptions()...)
	e.wire()
	return e
}

// NewFromReader creates an Engine whose initial content is read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	buf, err := buffer.NewBufferFromReader(r, e.bufOptions()...)
	if err != nil {
		return nil, err
	}
	e.buf = buf
	e.wire()
	return e, nil
}

// NewFromSource creates an Engine whose buffer carries the identity of
// src (a file path, typically), reading its initial content from it.
func NewFromSource(src buffer.FileSource, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	buf, err := buffer.NewBufferFromSource(src, e.bufOptions()...)
	if err != nil {
		return nil, err
	}
	e.buf = buf
	e.wire()
	return e, nil
}

// wire constructs the decode/cursor/fold/wrap/decoration collaborators
// and subscribes the edit pipeline described in spec.md §5. Ordering
// matters: decode.New must subscribe to the buffer's end_edit before
// Engine's own handlers do, since events.Sink.Publish dispatches
// handlers in registration order and the fold/cursor handlers below
// depend on the interpretation's trees already being rebuilt for this
// edit by the time they run.
func (e *Engine) wire() {
	e.interp = decode.New(e.buf, e.desc)
	e.cursors = cursor.NewCursorSetAt(0)
	e.folds = fold.New()
	e.wraps = wrap.New()
	e.decorations = decoration.New()
	e.view = wrap.NewView(e.interp, e.folds, e.wraps)

	e.beginEditTok = e.buf.OnBeginEdit(func(buffer.BeginEditEvent) {
		e.pendingFixup = e.folds.BeginFixup(e.interp)
	})
	e.endEditTok = e.buf.OnEndEdit(func(ev buffer.EndEditEvent) {
		e.folds.EndFixup(e.pendingFixup, ev.PatchTable, e.interp)
		e.pendingFixup = nil
		e.cursors.PatchUnderEdit(ev.PatchTable, patch.Back, patch.Front)
		e.logger.Debug("buffer edit committed",
			slog.String("edit_type", string(ev.EditType)),
			slog.String("source", ev.Source),
			slog.Int("modifications", len(ev.Modifications)))
	})
	e.interpTok = e.interp.OnEndEdit(func(ev decode.EndEditEvent) {
		for _, mod := range ev.Modifications {
			e.wraps.Reproject(int(mod.StartCharacter), int(mod.RemovedCharacters), int(mod.InsertedCharacters))
			e.decorations.OnModification(mod.StartCharacter, mod.RemovedCharacters, mod.InsertedCharacters)
		}
	})
}

// Close releases the engine's subscriptions to its buffer. An Engine
// should not be used after Close.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.RemoveBeginEditHandler(e.beginEditTok)
	e.buf.RemoveEndEditHandler(e.endEditTok)
	e.interp.RemoveEndEditHandler(e.interpTok)
	e.interp.Close()
}

// --- Read access ---------------------------------------------------

// Text returns the full buffer content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// TextRange returns the buffer content in [start, end).
func (e *Engine) TextRange(start, end ByteOffset) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TextRange(start, end)
}

// Len returns the buffer length in bytes.
func (e *Engine) Len() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// IsEmpty reports whether the buffer is empty.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.IsEmpty()
}

// LineCount returns the number of hard lines in the buffer.
func (e *Engine) LineCount() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// LineText returns the text of the given 0-indexed line, including its
// terminator if any.
func (e *Engine) LineText(line uint32) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineText(line)
}

// ByteAt returns the byte at offset.
func (e *Engine) ByteAt(offset ByteOffset) (byte, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.ByteAt(offset)
}

// OffsetToPoint converts a byte offset to a line/column Point.
func (e *Engine) OffsetToPoint(offset ByteOffset) Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.OffsetToPoint(offset)
}

// PointToOffset converts a line/column Point to a byte offset.
func (e *Engine) PointToOffset(point Point) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.PointToOffset(point)
}

// LineStartOffset returns the byte offset the given line starts at.
func (e *Engine) LineStartOffset(line uint32) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineStartOffset(line)
}

// LineEndOffset returns the byte offset the given line ends at
// (before its terminator, if any).
func (e *Engine) LineEndOffset(line uint32) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEndOffset(line)
}

// TabWidth returns the buffer's configured tab width.
func (e *Engine) TabWidth() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TabWidth()
}

// SetTabWidth updates the buffer's tab width.
func (e *Engine) SetTabWidth(width int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.SetTabWidth(width)
}

// LineEnding returns the buffer's line-ending convention.
func (e *Engine) LineEnding() LineEnding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEnding()
}

// SetLineEnding updates the buffer's line-ending convention.
func (e *Engine) SetLineEnding(le LineEnding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.SetLineEnding(le)
}

// Identity returns the buffer's file identity.
func (e *Engine) Identity() Identity {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Identity()
}

// RevisionID returns the buffer's current revision.
func (e *Engine) RevisionID() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RevisionID()
}

// Snapshot returns a read-only, structurally-shared view of the buffer's
// current text.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Snapshot()
}

// IsReadOnly reports whether the engine rejects write operations.
func (e *Engine) IsReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// --- Character-level access (decode.Interpretation) -----------------

// CharacterCount returns the number of characters (CRLF pairs count as
// one) in the buffer.
func (e *Engine) CharacterCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.interp.CharacterCount()
}

// CodepointCount returns the number of Unicode codepoints in the buffer.
func (e *Engine) CodepointCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.interp.CodepointCount()
}

// ByteToCharacter converts a byte offset to a character index.
func (e *Engine) ByteToCharacter(b ByteOffset) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.interp.ByteToCharacter(b)
}

// CharacterToByte converts a character index to a byte offset.
func (e *Engine) CharacterToByte(ch int) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.interp.CharacterToByte(ch)
}

// CharacterToLine converts a character index to its hard-line index.
func (e *Engine) CharacterToLine(ch int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.interp.CharacterToLine(ch)
}

// LineToCharacter returns the character index a hard line starts at.
func (e *Engine) LineToCharacter(line int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.interp.LineToCharacter(line)
}

// LineCharacterCount returns the number of characters on a hard line,
// excluding its terminator.
func (e *Engine) LineCharacterCount(line int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.interp.LineCharacterCount(line)
}

// --- Edits -----------------------------------------------------------

// Insert inserts text at offset.
func (e *Engine) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return 0, ErrReadOnly
	}
	return e.buf.Insert(offset, text)
}

// Delete removes the bytes in [start, end).
func (e *Engine) Delete(start, end ByteOffset) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	return e.buf.Delete(start, end)
}

// Replace replaces the bytes in [start, end) with text.
func (e *Engine) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return 0, ErrReadOnly
	}
	return e.buf.Replace(start, end, text)
}

// ApplyEdit applies a single Edit within its own scoped edit.
func (e *Engine) ApplyEdit(edit Edit) (EditResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return EditResult{}, ErrReadOnly
	}
	return e.buf.ApplyEdit(edit)
}

// ApplyEdits applies multiple edits as one scoped edit. Edits must be
// non-overlapping and given in reverse document order (buffer.ApplyEdits).
func (e *Engine) ApplyEdits(edits []Edit) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	return e.buf.ApplyEdits(edits)
}

// Undo reverts the most recent edit, if any.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	if !e.buf.CanUndo() {
		return ErrNothingToUndo
	}
	_, err := e.buf.Undo("engine")
	return err
}

// Redo reapplies the most recently undone edit, if any.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	if !e.buf.CanRedo() {
		return ErrNothingToRedo
	}
	_, err := e.buf.Redo("engine")
	return err
}

// CanUndo reports whether Undo would do anything.
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.CanRedo()
}

// --- Cursors -----------------------------------------------------------

// Cursors returns a clone of the engine's cursor set.
func (e *Engine) Cursors() *cursor.CursorSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Clone()
}

// SetCursors replaces the engine's cursor set with a clone of cs.
func (e *Engine) SetCursors(cs *cursor.CursorSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors = cs.Clone()
}

// PrimarySelection returns the primary caret's selection.
func (e *Engine) PrimarySelection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Primary()
}

// SetPrimarySelection sets the primary caret's selection.
func (e *Engine) SetPrimarySelection(sel Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.SetPrimary(sel)
}

// CursorCount returns the number of carets.
func (e *Engine) CursorCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Count()
}

// --- Folds -----------------------------------------------------------

// AddFold collapses the character range [start, end) into one visual
// line. gapLines/foldedLines are the hard-line counts before and within
// the fold (fold.Registry.Add).
func (e *Engine) AddFold(start, end, gapLines, foldedLines int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.folds.Add(start, end, gapLines, foldedLines)
}

// RemoveFold removes the fold at index i, as returned by Folds.
func (e *Engine) RemoveFold(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.folds.Remove(i)
}

// Folds returns every fold region, ordered by start.
func (e *Engine) Folds() []Region {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.folds.All()
}

// FindFoldContaining returns the fold region containing the character
// position pos, if any.
func (e *Engine) FindFoldContaining(pos int, endpoint FoldEndpoint) (Region, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.folds.FindRegionContaining(pos, endpoint)
}

// --- Wrapping ----------------------------------------------------------

// VisualLineOfChar returns the visual (on-screen) line character c
// falls on, accounting for folds and soft breaks.
func (e *Engine) VisualLineOfChar(c int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view.VisualLineOfChar(c)
}

// CharAtVisualLineStart returns the character that starts visual line
// target.
func (e *Engine) CharAtVisualLineStart(target int) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view.CharAtVisualLineStart(target)
}

// Rewrap recomputes every soft line break so that no visual line exceeds
// width display columns, measuring grapheme clusters and East Asian
// width via wrap.MeasureWidth. Existing breaks are discarded.
func (e *Engine) Rewrap(width int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if width <= 0 {
		e.wraps.Clear()
		return
	}
	var breaks []int
	lineCount := e.interp.LineCount()
	for line := 0; line < lineCount; line++ {
		lineStartChar := e.interp.LineToCharacter(line)
		lineLen := e.interp.LineCharacterCount(line)
		if lineLen == 0 {
			continue
		}
		startByte := e.interp.CharacterToByte(lineStartChar)
		endByte := e.interp.CharacterToByte(lineStartChar + lineLen)
		text := e.buf.TextRange(startByte, endByte)

		byteOffset := 0
		for {
			remaining := text[byteOffset:]
			if remaining == "" {
				break
			}
			runeCut := wrap.CharAtColumn(remaining, width)
			if runeCut >= utf8.RuneCountInString(remaining) {
				break
			}
			byteCut := byteOffsetOfRune(remaining, runeCut)
			if byteCut == 0 {
				break
			}
			byteOffset += byteCut
			breaks = append(breaks, e.interp.ByteToCharacter(startByte+ByteOffset(byteOffset)))
		}
	}
	e.wraps.SetAll(breaks)
}

// byteOffsetOfRune returns the byte offset of the runeIdx'th rune in s.
func byteOffsetOfRune(s string, runeIdx int) int {
	n := 0
	for i := range s {
		if n == runeIdx {
			return i
		}
		n++
	}
	return len(s)
}

// --- Decorations ---------------------------------------------------

// AddDecoration styles the range [start, end) of the document with
// style. Overlapping decorations are allowed and never merged.
func (e *Engine) AddDecoration(start, end decoration.Offset, style Style) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.decorations.Insert(start, end-start, style)
}

// RemoveDecoration removes the decoration at index i, as returned by
// Decorations.
func (e *Engine) RemoveDecoration(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.decorations.Erase(i)
}

// Decorations returns every decoration in the registry.
func (e *Engine) Decorations() []Decoration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.decorations.All()
}

// DecorationsAt returns every decoration intersecting point.
func (e *Engine) DecorationsAt(point decoration.Offset) []Decoration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.decorations.FindIntersecting(point)
}

// DecorationsInRange returns every decoration intersecting [start, end).
func (e *Engine) DecorationsInRange(start, end decoration.Offset) []Decoration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.decorations.FindIntersectingRange(start, end)
}
