// Package sumtree provides a generic, persistent, augmented order-statistics
// tree: a balanced B+tree over a sequence of typed chunks, where every node
// also carries a caller-defined "summary" aggregate of its subtree.
//
// It generalizes the pattern already used by the sibling rope package (a
// B+tree of byte chunks aggregating byte/line counts) so that the other
// registries in this module — the decoded-codepoint index, the line/column
// registry, the fold registry, the soft-linebreak registry, the caret set,
// and the overlapping-range registry — can all be built as instantiations
// of one tree engine instead of five hand-rolled ones.
//
// # Policy
//
// A Tree is parameterized by a chunk type C (the leaf payload) and a
// summary type S (the per-subtree aggregate, e.g. byte/line/codepoint
// counts). The caller supplies a Policy[C, S] bundling the monoid
// operations:
//
//	p := sumtree.Policy[MyChunk, MySummary]{
//	    Zero:    func() MySummary { return MySummary{} },
//	    Combine: func(a, b MySummary) MySummary { return a.Add(b) },
//	    Measure: func(c MyChunk) MySummary { return c.Summary() },
//	}
//	t := sumtree.FromSlice(p, chunks)
//
// # Rank/select
//
// FindCustom is the primary rank/select primitive: it descends the tree
// accumulating the summary of everything strictly to the left of the
// current candidate, and asks a caller-supplied predicate whether the
// target lies within the candidate's span. This mirrors the byte-offset
// and line-number descents in rope/node.go, generalized to any summary.
//
// # Persistence
//
// Like rope, every mutating operation (Insert, RemoveRange, SpliceRange,
// Split, Join) returns a new Tree value; the receiver is never modified.
// This is the balancing scheme this module settles on for every augmented
// tree in the core (see the repository's DESIGN.md, "open questions
// resolved"): it supports split/join directly and avoids the
// cyclic-parent-pointer hazard of an in-place red-black tree. Queries
// (At, PrefixSummary, FindCustom) descend the tree in O(log n). Every
// mutating operation rebuilds the whole tree from its full item list via
// FromSlice, so a mutation costs O(n) in the item count, not O(log n).
package sumtree
