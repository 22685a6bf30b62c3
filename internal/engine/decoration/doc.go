// Package decoration implements the overlapping-range registry used by
// syntax themes and ad-hoc decorations (diagnostic underlines, selection
// highlight overlays). Ranges are stored in a sumtree instantiation keyed
// by offset-from-previous-start with a running max-end augmentation.
// Point and range intersection queries do not use that augmentation:
// they decode every decoration and test each one, so a query is linear
// in the number of decorations.
package decoration
