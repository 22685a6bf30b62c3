package wrap

import "github.com/dshills/keystorm/internal/engine/fold"

// LineSource is the hard-line collaborator View needs: decode.Interpretation
// satisfies it directly.
type LineSource interface {
	LineCount() int
	LineToCharacter(line int) int
	LineCharacterCount(line int) int
	CharacterToLine(character int) int
}

// View composes a fold registry and a soft-break registry over a
// LineSource to answer the coordinate conversions an editor surface
// needs: which visual line a character falls on, and which character
// starts a given visual line.
type View struct {
	lines  LineSource
	folds  *fold.Registry
	breaks *Registry
}

// NewView returns a View over lines, folds and breaks. The caller owns
// all three collaborators and keeps them in sync with edits.
func NewView(lines LineSource, folds *fold.Registry, breaks *Registry) *View {
	return &View{lines: lines, folds: folds, breaks: breaks}
}

// VisualLineOfChar returns the visual (on-screen) line character c
// appears on: hard_lines_before(c), collapsed through any folds, plus
// soft_breaks_before(c) (spec.md §4.F).
func (v *View) VisualLineOfChar(c int) int {
	hardLine := v.lines.CharacterToLine(c)
	foldedLine := v.folds.UnfoldedLineToFoldedLine(hardLine)
	return foldedLine + v.breaks.SoftBreaksBefore(c)
}

// CharAtVisualLineStart returns the character that begins visual line
// target, and whether that many visual lines exist.
//
// This walks hard lines in order, skipping any that a fold collapses
// into the previous visual line, and interleaves each surviving hard
// line's soft breaks — effectively a merge of the two ascending
// sequences (hard line starts and soft breaks) rather than the parallel
// ancestor-walk spec.md §4.F describes, trading that descent's O(log n)
// per step for one linear pass consistent with this codebase's other
// "decode to a slice, then scan" simplifications (see DESIGN.md).
func (v *View) CharAtVisualLineStart(target int) (int, bool) {
	if target < 0 {
		return 0, false
	}
	visual := -1
	lastFoldedLine := -1
	for hardLine := 0; hardLine < v.lines.LineCount(); hardLine++ {
		foldedLine := v.folds.UnfoldedLineToFoldedLine(hardLine)
		if foldedLine == lastFoldedLine {
			continue
		}
		lastFoldedLine = foldedLine

		lineStart := v.lines.LineToCharacter(hardLine)
		lineEnd := lineStart + v.lines.LineCharacterCount(hardLine)

		visual++
		if visual == target {
			return lineStart, true
		}
		for _, brk := range v.breaks.BreaksInRange(lineStart, lineEnd) {
			visual++
			if visual == target {
				return brk, true
			}
		}
	}
	return 0, false
}

// ColumnOfChar returns the visual column (0-based, measured in terminal
// cells via MeasureWidth) of character c within its visual line, given
// the line's text. Callers typically pass the text from the start of
// c's visual line (as located by CharAtVisualLineStart) up to c.
func ColumnOfChar(lineText string) int {
	return MeasureWidth(lineText)
}

// CharAtColumn walks lineText measuring visual width until it reaches or
// passes targetColumn, returning the rune-count offset into lineText of
// the closest match — used to place a caret at its remembered alignment
// column after vertical motion (spec.md §4.F).
func CharAtColumn(lineText string, targetColumn int) int {
	col := 0
	offset := 0
	for _, cluster := range graphemeClusters(lineText) {
		w := MeasureWidth(cluster)
		if col+w > targetColumn {
			break
		}
		col += w
		offset += len([]rune(cluster))
	}
	return offset
}
