// Package wrap implements the soft-linebreak registry and the View that
// composes it with a fold registry, giving an editor surface the
// hard-line/soft-break/fold-aware coordinate conversions described in
// spec.md §4.F: visual line of a character, character at the start of a
// visual line, and visual-column measurement for alignment-preserving
// vertical motion.
package wrap
