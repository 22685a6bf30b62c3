// Package fold implements the fold registry: a set of non-overlapping
// collapsed regions over character positions, plus the unfolded-line /
// folded-line bijections an editor view needs. Fold bounds are cached in
// bytes across an edit (via a Converter) because the edit's own
// position-patch table operates in byte coordinates; the registry then
// re-derives character positions and rebuilds.
package fold
