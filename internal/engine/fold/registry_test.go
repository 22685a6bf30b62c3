package fold

import (
	"testing"

	"github.com/dshills/keystorm/internal/engine/buffer/patch"
)

func TestAddAndFindRegionContaining(t *testing.T) {
	r := New()
	if err := r.Add(10, 20, 0, 3); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, ok := r.FindRegionContaining(15, Closed); !ok {
		t.Error("expected a fold containing 15")
	}
	if _, ok := r.FindRegionContaining(10, Open); ok {
		t.Error("Open endpoint should exclude the fold's own start")
	}
	if _, ok := r.FindRegionContaining(10, Closed); !ok {
		t.Error("Closed endpoint should include the fold's own start")
	}
	if _, ok := r.FindRegionContaining(25, Closed); ok {
		t.Error("point outside the fold should not match")
	}
}

func TestAddRejectsEmptyRange(t *testing.T) {
	r := New()
	if err := r.Add(10, 10, 0, 1); err != ErrEmptyRange {
		t.Errorf("expected ErrEmptyRange, got %v", err)
	}
}

func TestAddAbsorbsOverlappingFolds(t *testing.T) {
	r := New()
	_ = r.Add(10, 20, 0, 2)
	_ = r.Add(15, 30, 0, 3)

	if r.Count() != 1 {
		t.Fatalf("expected the overlapping fold to be absorbed, got count %d", r.Count())
	}
	reg := r.All()[0]
	if reg.Start != 15 || reg.End != 30 {
		t.Errorf("expected the surviving fold to be the new [15:30), got [%d:%d)", reg.Start, reg.End)
	}
}

func TestUnfoldedFoldedLineBijection(t *testing.T) {
	r := New()
	// A fold spanning 3 hard lines starting at unfolded line 5 collapses
	// to a single visual line.
	_ = r.Add(100, 200, 5, 3)

	if got := r.UnfoldedLineToFoldedLine(4); got != 4 {
		t.Errorf("line before the fold should be unaffected, got %d", got)
	}
	if got := r.UnfoldedLineToFoldedLine(8); got != 6 {
		t.Errorf("line after the fold should lose 2 visual lines, got %d", got)
	}
	for _, interior := range []int{6, 7} {
		if got := r.UnfoldedLineToFoldedLine(interior); got != 5 {
			t.Errorf("interior fold line %d should collapse to the fold's start line 5, got %d", interior, got)
		}
	}

	for _, unfolded := range []int{0, 3, 4, 8, 20} {
		folded := r.UnfoldedLineToFoldedLine(unfolded)
		back := r.FoldedLineToUnfoldedLine(folded)
		if back > unfolded {
			t.Errorf("round trip for unfolded line %d overshot: folded=%d back=%d", unfolded, folded, back)
		}
	}
}

type fakeConverter struct {
	charToByte map[int]int64
	byteToChar map[int64]int
}

func (c fakeConverter) CharacterToByte(ch int) int64 { return c.charToByte[ch] }
func (c fakeConverter) ByteToCharacter(b int64) int  { return c.byteToChar[b] }

func TestFixupReprojectsAcrossEdit(t *testing.T) {
	r := New()
	_ = r.Add(10, 20, 0, 1)

	conv := fakeConverter{
		charToByte: map[int]int64{10: 10, 20: 20},
		byteToChar: map[int64]int{13: 10, 23: 20},
	}

	cached := r.BeginFixup(conv)

	// Insert 3 bytes before the fold, shifting it by +3.
	table := patch.NewTable([]patch.Entry{{Position: 0, Removed: 0, Inserted: 3}})

	r.EndFixup(cached, table, conv)

	reg := r.All()[0]
	if reg.Start != 10 || reg.End != 20 {
		t.Errorf("expected fold re-projected to [10:20) via the fake converter, got [%d:%d)", reg.Start, reg.End)
	}
}

func TestFixupDropsEmptiedFold(t *testing.T) {
	r := New()
	_ = r.Add(10, 20, 0, 1)

	conv := fakeConverter{
		charToByte: map[int]int64{10: 10, 20: 20},
		byteToChar: map[int64]int{10: 10},
	}
	cached := r.BeginFixup(conv)

	// A deletion collapses the fold's whole byte range.
	table := patch.NewTable([]patch.Entry{{Position: 10, Removed: 10, Inserted: 0}})
	r.EndFixup(cached, table, conv)

	if r.Count() != 0 {
		t.Errorf("expected the emptied fold to be dropped, got count %d", r.Count())
	}
}
