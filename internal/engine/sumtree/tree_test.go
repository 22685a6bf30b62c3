package sumtree

import "testing"

type intSummary struct {
	count int
	sum   int
}

func addSummary(a, b intSummary) intSummary {
	return intSummary{count: a.count + b.count, sum: a.sum + b.sum}
}

func intPolicy() Policy[int, intSummary] {
	return Policy[int, intSummary]{
		Zero:    func() intSummary { return intSummary{} },
		Combine: addSummary,
		Measure: func(c int) intSummary { return intSummary{count: 1, sum: c} },
	}
}

func TestFromSliceCountAndAt(t *testing.T) {
	items := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, i)
	}
	tr := FromSlice(intPolicy(), items)
	if tr.Count() != 100 {
		t.Fatalf("Count() = %d, want 100", tr.Count())
	}
	for i := 0; i < 100; i++ {
		v, ok := tr.At(i)
		if !ok || v != i {
			t.Fatalf("At(%d) = %d, %v, want %d, true", i, v, ok, i)
		}
	}
	if _, ok := tr.At(100); ok {
		t.Fatalf("At(100) should not be ok")
	}
	if _, ok := tr.At(-1); ok {
		t.Fatalf("At(-1) should not be ok")
	}
}

func TestSummaryAggregatesWholeTree(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	tr := FromSlice(intPolicy(), items)
	s := tr.Summary()
	if s.count != 5 || s.sum != 15 {
		t.Fatalf("Summary() = %+v, want {5 15}", s)
	}
}

func TestInsertReplaceRemove(t *testing.T) {
	tr := FromSlice(intPolicy(), []int{1, 2, 3})
	tr2 := tr.Insert(1, 99)
	if got := tr2.Items(); !equalInts(got, []int{1, 99, 2, 3}) {
		t.Fatalf("Insert result = %v", got)
	}
	// original tree unmodified (persistence)
	if got := tr.Items(); !equalInts(got, []int{1, 2, 3}) {
		t.Fatalf("original tree mutated: %v", got)
	}

	tr3 := tr2.Replace(0, -1)
	if got := tr3.Items(); !equalInts(got, []int{-1, 99, 2, 3}) {
		t.Fatalf("Replace result = %v", got)
	}

	tr4 := tr3.RemoveRange(1, 3)
	if got := tr4.Items(); !equalInts(got, []int{-1, 3}) {
		t.Fatalf("RemoveRange result = %v", got)
	}
}

func TestSpliceRangeAppendAndClamp(t *testing.T) {
	tr := FromSlice(intPolicy(), []int{1, 2, 3})
	appended := tr.Insert(tr.Count(), 4)
	if got := appended.Items(); !equalInts(got, []int{1, 2, 3, 4}) {
		t.Fatalf("append via Insert = %v", got)
	}
	clamped := tr.SpliceRange(-5, 1000, []int{9})
	if got := clamped.Items(); !equalInts(got, []int{9}) {
		t.Fatalf("clamped splice = %v", got)
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	items := make([]int, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, i)
	}
	tr := FromSlice(intPolicy(), items)
	left, right := tr.Split(20)
	if left.Count() != 20 || right.Count() != 30 {
		t.Fatalf("Split counts = %d, %d", left.Count(), right.Count())
	}
	joined := Join(left, right)
	if got := joined.Items(); !equalInts(got, items) {
		t.Fatalf("Join(Split) round trip mismatch")
	}
}

func TestFindCustomRank(t *testing.T) {
	items := []int{10, 10, 10, 10, 10} // cumulative sums: 10,20,30,40,50
	tr := FromSlice(intPolicy(), items)

	idx, accBefore, ok := FindCustom(tr, func(accBefore, itemSummary intSummary) bool {
		return 25 < accBefore.sum+itemSummary.sum
	})
	if !ok || idx != 2 {
		t.Fatalf("FindCustom(25) index = %d, ok=%v, want 2, true", idx, ok)
	}
	if accBefore.sum != 20 {
		t.Fatalf("accBefore.sum = %d, want 20", accBefore.sum)
	}

	_, _, ok = FindCustom(tr, func(accBefore, itemSummary intSummary) bool {
		return 1000 < accBefore.sum+itemSummary.sum
	})
	if ok {
		t.Fatalf("FindCustom(1000) should not match")
	}
}

func TestPrefixSummary(t *testing.T) {
	items := []int{1, 2, 3, 4, 5} // cumulative: 1,3,6,10,15
	tr := FromSlice(intPolicy(), items)

	if s := PrefixSummary(tr, 0); s.sum != 0 {
		t.Fatalf("PrefixSummary(0).sum = %d, want 0", s.sum)
	}
	if s := PrefixSummary(tr, 3); s.sum != 6 || s.count != 3 {
		t.Fatalf("PrefixSummary(3) = %+v, want {3 6}", s)
	}
	if s := PrefixSummary(tr, 100); s.sum != 15 {
		t.Fatalf("PrefixSummary(100).sum = %d, want 15", s.sum)
	}
}

func TestForEachEarlyStop(t *testing.T) {
	tr := FromSlice(intPolicy(), []int{1, 2, 3, 4, 5})
	var seen []int
	tr.ForEach(func(c int) bool {
		seen = append(seen, c)
		return c < 3
	})
	if !equalInts(seen, []int{1, 2, 3}) {
		t.Fatalf("ForEach early stop, seen = %v", seen)
	}
}

func TestEmptyTree(t *testing.T) {
	tr := New(intPolicy())
	if !tr.IsEmpty() || tr.Count() != 0 {
		t.Fatalf("New tree should be empty")
	}
	if _, ok := tr.At(0); ok {
		t.Fatalf("At(0) on empty tree should not be ok")
	}
	left, right := tr.Split(0)
	if !left.IsEmpty() || !right.IsEmpty() {
		t.Fatalf("Split of empty tree should be empty")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
