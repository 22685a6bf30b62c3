package engine

import (
	"testing"

	"github.com/dshills/keystorm/internal/engine/buffer/patch"
	"github.com/dshills/keystorm/internal/engine/cursor"
	"github.com/dshills/keystorm/internal/engine/decode"
	"github.com/dshills/keystorm/internal/engine/decoration"
	"github.com/dshills/keystorm/internal/engine/fold"
)

// Scenario 1: insert "hello\nworld" into an empty buffer.
func TestScenarioInsertIntoEmptyBuffer(t *testing.T) {
	e := New()

	if _, err := e.Insert(0, "hello\nworld"); err != nil {
		t.Fatal(err)
	}

	if e.Len() != 11 {
		t.Errorf("expected buffer length 11, got %d", e.Len())
	}
	if got := e.CodepointCount(); got != 11 {
		t.Errorf("expected 11 codepoints, got %d", got)
	}
	if got := e.LineCount(); got != 2 {
		t.Errorf("expected 2 lines, got %d", got)
	}
	if got := e.CharacterToLine(6); got != 1 {
		t.Errorf("expected character 6 to be on line 1, got %d", got)
	}
	lineStart := e.LineToCharacter(1)
	if got := 6 - lineStart; got != 0 {
		t.Errorf("expected column 0 for character 6, got %d", got)
	}
	if got := e.LineCharacterCount(0); got != 5 {
		t.Errorf("expected line 0 to report 5 non-break characters, got %d", got)
	}
}

// Scenario 2: inserting a lone CR immediately before an existing LF
// merges them into one CRLF character.
func TestScenarioCRMergesWithFollowingLF(t *testing.T) {
	e := New(WithContent("hello\nworld"))

	m := e.buf.BeginEdit("insert", "test")
	if err := m.Modify(5, 0, "\r"); err != nil {
		t.Fatal(err)
	}
	m.End()

	if got := e.CharacterCount(); got != 11 {
		t.Errorf("expected character count to drop by 1 to 11 (CRLF merge), got %d", got)
	}
	if got := e.CharacterToLine(6); got != 1 {
		t.Errorf("expected character 6 to remain on line 1 after the merge, got %d", got)
	}
}

// Scenario 3: erasing the CR of a CRLF pair splits it back into a lone LF.
func TestScenarioErasingCRSplitsCRLF(t *testing.T) {
	e := New(WithContent("hello\nworld"))
	m := e.buf.BeginEdit("insert", "test")
	_ = m.Modify(5, 0, "\r")
	m.End()
	if got := e.CharacterCount(); got != 11 {
		t.Fatalf("setup: expected 11 characters after CR insert, got %d", got)
	}

	var gotRemoved, gotInserted int64
	tok := e.interp.OnEndEdit(func(ev decode.EndEditEvent) {
		for _, mod := range ev.Modifications {
			gotRemoved += mod.RemovedCharacters
			gotInserted += mod.InsertedCharacters
		}
	})
	defer e.interp.RemoveEndEditHandler(tok)

	m2 := e.buf.BeginEdit("delete", "test")
	if err := m2.Modify(5, 1, ""); err != nil {
		t.Fatal(err)
	}
	m2.End()

	if got := e.CharacterCount(); got != 11 {
		t.Errorf("expected character count restored to 11 after the split, got %d", got)
	}
	if gotRemoved != 1 || gotInserted != 0 {
		t.Errorf("expected the end_edit payload to report removed_characters=1, inserted_characters=0, got removed=%d inserted=%d", gotRemoved, gotInserted)
	}
}

// Scenario 4: erasing characters [3,5) collapses a caret that sits
// inside the erased range onto its end, per the back strategy.
func TestScenarioCaretPatchingWithBackStrategy(t *testing.T) {
	cs := cursor.NewCursorSetFromSlice([]cursor.Selection{
		cursor.NewCursorSelection(2),
		cursor.NewCursorSelection(4),
		cursor.NewCursorSelection(6),
	})

	table := patch.NewTable([]patch.Entry{{Position: 3, Removed: 2, Inserted: 0}})
	cs.PatchUnderEdit(table, patch.Back, patch.Front)

	want := []ByteOffset{2, 3, 4}
	got := cs.All()
	if len(got) != len(want) {
		t.Fatalf("expected %d carets, got %d", len(want), len(got))
	}
	for i, sel := range got {
		if sel.Head != want[i] || sel.Anchor != want[i] {
			t.Errorf("caret %d: expected %d, got anchor=%d head=%d", i, want[i], sel.Anchor, sel.Head)
		}
	}
}

// Scenario 5: a fold over characters [10,20) in a buffer with one hard
// line break at character 15 hides exactly one hard line.
func TestScenarioFoldHidesOneHardLine(t *testing.T) {
	f := fold.New()
	if err := f.Add(10, 20, 0, 2); err != nil {
		t.Fatal(err)
	}

	if got := f.FoldedLineToUnfoldedLine(1); got != 2 {
		t.Errorf("expected folded line 1 to map back to unfolded line 2, got %d", got)
	}
	if _, ok := f.FindRegionContaining(10, fold.Open); ok {
		t.Error("expected no match at the fold's own start with an open endpoint")
	}
	if _, ok := f.FindRegionContaining(15, fold.Open); !ok {
		t.Error("expected the fold to contain character 15 with an open endpoint")
	}
}

// Scenario 6: an overlapping-range registry with ranges [2,5), [4,9),
// [10,12) finds the prefix whose first element is [4,9) at point 6, and
// reprojects correctly across an erase of [3,7).
func TestScenarioOverlappingRangeRegistry(t *testing.T) {
	r := decoration.New()
	style := decoration.Style{}
	r.Insert(2, 3, style) // [2,5)
	r.Insert(4, 5, style) // [4,9)
	r.Insert(10, 2, style) // [10,12)

	hits := r.FindIntersecting(6)
	if len(hits) == 0 || hits[0].Start != 4 || hits[0].End != 9 {
		t.Fatalf("expected the first intersecting range at point 6 to be [4,9), got %v", hits)
	}

	r.OnModification(3, 4, 0) // erase [3,7)

	all := r.All()
	for _, d := range all {
		if d.Start >= d.End {
			t.Errorf("expected every surviving range to keep positive extent, got [%d,%d)", d.Start, d.End)
		}
	}
}
