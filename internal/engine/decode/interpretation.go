package decode

import (
	"sync"

	"github.com/dshills/keystorm/internal/engine/buffer"
	"github.com/dshills/keystorm/internal/engine/buffer/patch"
	"github.com/dshills/keystorm/internal/engine/encoding"
	"github.com/dshills/keystorm/internal/engine/events"
	"github.com/dshills/keystorm/internal/engine/sumtree"
)

// Interpretation decodes a buffer's bytes into codepoints, characters
// and lines, and keeps that decoding current as the buffer is edited.
// All methods are safe for concurrent use.
type Interpretation struct {
	mu         sync.RWMutex
	buf        *buffer.Buffer
	desc       encoding.Descriptor
	codepoints sumtree.Tree[runeEntry, runeSummary]
	characters sumtree.Tree[characterEntry, characterSummary]
	lines      sumtree.Tree[lineEntry, lineSummary]

	modSink  *events.Sink[EndModificationEvent]
	editSink *events.Sink[EndEditEvent]
	endTok   events.Token
}

// New decodes buf's current text with desc and subscribes to buf's
// end_edit event to keep the decoding current. Call Close to
// unsubscribe.
func New(buf *buffer.Buffer, desc encoding.Descriptor) *Interpretation {
	i := &Interpretation{
		buf:      buf,
		desc:     desc,
		modSink:  events.NewSink[EndModificationEvent](),
		editSink: events.NewSink[EndEditEvent](),
	}
	i.rebuild(buf.Text())
	i.endTok = buf.OnEndEdit(i.handleEndEdit)
	return i
}

// Close unsubscribes from the underlying buffer's events.
func (i *Interpretation) Close() {
	i.buf.RemoveEndEditHandler(i.endTok)
}

func (i *Interpretation) rebuild(text string) {
	runes := decodeRunes(i.desc, text)
	chars := buildCharacters(runes)
	lns := buildLines(chars)
	i.codepoints = sumtree.FromSlice(codepointPolicy(), runes)
	i.characters = sumtree.FromSlice(characterPolicy(), chars)
	i.lines = sumtree.FromSlice(linePolicy(), lns)
}

// handleEndEdit is registered against the buffer's end_edit event. It
// projects each byte-space Modification into character space using the
// interpretation as it stood immediately before this edit, then
// rebuilds from the buffer's new text.
//
// ev.Modifications' Position fields are in the same coordinate space
// ev.PatchTable itself assumes (see patch.Table.Apply): positions
// against the buffer as it stood before any modification in this edit,
// non-decreasing across the slice. That is exactly the space the
// pre-rebuild trees still describe, so every lookup below uses them
// before rebuild is called.
func (i *Interpretation) handleEndEdit(ev buffer.EndEditEvent) {
	i.mu.Lock()
	defer i.mu.Unlock()

	entries := make([]patch.Entry, 0, len(ev.Modifications))
	decoded := make([]EndModificationEvent, 0, len(ev.Modifications))

	for _, mod := range ev.Modifications {
		startCodepoint := i.byteToCodepointLocked(int64(mod.Position))
		startCharacter := i.codepointToCharacterLocked(startCodepoint)
		startLine := i.characterToLineLocked(startCharacter)
		startColumn := startCharacter - i.lineToCharacterLocked(startLine)

		removedChars := buildCharacters(decodeRunes(i.desc, mod.OldText))
		insertedChars := buildCharacters(decodeRunes(i.desc, mod.NewText))

		dm := EndModificationEvent{
			StartCharacter:     int64(startCharacter),
			StartLine:          startLine,
			StartColumn:        startColumn,
			RemovedCharacters:  int64(len(removedChars)),
			InsertedCharacters: int64(len(insertedChars)),
		}
		decoded = append(decoded, dm)
		entries = append(entries, patch.Entry{
			Position: dm.StartCharacter,
			Removed:  dm.RemovedCharacters,
			Inserted: dm.InsertedCharacters,
		})
		i.modSink.Publish(dm)
	}

	i.rebuild(i.buf.Text())

	i.editSink.Publish(EndEditEvent{
		EditType:      ev.EditType,
		Source:        ev.Source,
		Modifications: decoded,
		PatchTable:    patch.NewTable(entries),
	})
}

// OnEndModification registers handler to run once per Modification
// while an end_edit is being handled, before the aggregate EndEditEvent.
func (i *Interpretation) OnEndModification(handler func(EndModificationEvent)) events.Token {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.modSink.Subscribe(handler)
}

// RemoveEndModificationHandler unregisters a handler added by
// OnEndModification.
func (i *Interpretation) RemoveEndModificationHandler(tok events.Token) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.modSink.Remove(tok)
}

// OnEndEdit registers handler to run once per handled buffer end_edit.
func (i *Interpretation) OnEndEdit(handler func(EndEditEvent)) events.Token {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.editSink.Subscribe(handler)
}

// RemoveEndEditHandler unregisters a handler added by OnEndEdit.
func (i *Interpretation) RemoveEndEditHandler(tok events.Token) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.editSink.Remove(tok)
}

// Counts

// CodepointCount returns the number of decoded codepoints.
func (i *Interpretation) CodepointCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.codepoints.Count()
}

// CharacterCount returns the number of characters (CRLF pairs counted
// once).
func (i *Interpretation) CharacterCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.characters.Count()
}

// LineCount returns the number of lines, including the trailing,
// unterminated line.
func (i *Interpretation) LineCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.lines.Count()
}

// Conversions

// ByteToCodepoint returns the index of the codepoint containing byte
// offset b.
func (i *Interpretation) ByteToCodepoint(b int64) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.byteToCodepointLocked(b)
}

func (i *Interpretation) byteToCodepointLocked(b int64) int {
	idx, _, ok := sumtree.FindCustom(i.codepoints, func(acc, s runeSummary) bool {
		return b < acc.Bytes+s.Bytes
	})
	if !ok {
		return i.codepoints.Count()
	}
	return idx
}

// CodepointToByte returns the byte offset at which codepoint index ci
// begins.
func (i *Interpretation) CodepointToByte(ci int) int64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return sumtree.PrefixSummary(i.codepoints, ci).Bytes
}

// CodepointToCharacter returns the index of the character containing
// codepoint index ci.
func (i *Interpretation) CodepointToCharacter(ci int) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.codepointToCharacterLocked(ci)
}

func (i *Interpretation) codepointToCharacterLocked(ci int) int {
	idx, _, ok := sumtree.FindCustom(i.characters, func(acc, s characterSummary) bool {
		return int64(ci) < acc.Codepoints+s.Codepoints
	})
	if !ok {
		return i.characters.Count()
	}
	return idx
}

// CharacterToCodepoint returns the codepoint index at which character
// index chi begins.
func (i *Interpretation) CharacterToCodepoint(chi int) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return int(sumtree.PrefixSummary(i.characters, chi).Codepoints)
}

// ByteToCharacter returns the index of the character containing byte
// offset b.
func (i *Interpretation) ByteToCharacter(b int64) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.codepointToCharacterLocked(i.byteToCodepointLocked(b))
}

// CharacterToByte returns the byte offset at which character index chi
// begins.
func (i *Interpretation) CharacterToByte(chi int) int64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return sumtree.PrefixSummary(i.codepoints, int(sumtree.PrefixSummary(i.characters, chi).Codepoints)).Bytes
}

// CharacterToLine returns the index of the line containing character
// index chi.
func (i *Interpretation) CharacterToLine(chi int) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.characterToLineLocked(chi)
}

func (i *Interpretation) characterToLineLocked(chi int) int {
	idx, _, ok := sumtree.FindCustom(i.lines, func(acc, s lineSummary) bool {
		return int64(chi) < acc.Characters+s.Characters
	})
	if !ok {
		if n := i.lines.Count(); n > 0 {
			return n - 1
		}
		return 0
	}
	return idx
}

// LineToCharacter returns the character index at which line begins.
func (i *Interpretation) LineToCharacter(line int) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.lineToCharacterLocked(line)
}

func (i *Interpretation) lineToCharacterLocked(line int) int {
	return int(sumtree.PrefixSummary(i.lines, line).Characters)
}

// LineCharacterCount returns the number of characters on line, not
// counting its line ending.
func (i *Interpretation) LineCharacterCount(line int) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	e, ok := i.lines.At(line)
	if !ok {
		return 0
	}
	if e.Ending != BreakNone {
		return e.Characters - 1
	}
	return e.Characters
}

// LineEnding reports how line ends.
func (i *Interpretation) LineEnding(line int) BreakKind {
	i.mu.RLock()
	defer i.mu.RUnlock()
	e, ok := i.lines.At(line)
	if !ok {
		return BreakNone
	}
	return e.Ending
}
