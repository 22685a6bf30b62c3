// Package decode maintains the interpreted view of a buffer's raw bytes:
// the codepoint sequence an encoding.Descriptor decodes them into, the
// characters those codepoints group into (a CRLF pair is one character,
// everything else is one codepoint per character), and the lines those
// characters split into at line-ending boundaries.
//
// All three levels are sumtree.Tree instantiations, giving O(log n)
// conversion in every direction: byte<->codepoint, codepoint<->character,
// character<->line. An Interpretation subscribes to its buffer's
// end_edit event and republishes a character-space EndModificationEvent
// per buffer.Modification plus an aggregate EndEditEvent carrying a
// character-space patch.Table, so character-space consumers (soft wraps,
// decorations) never need to touch byte offsets or re-run decoding
// themselves. Cursors and folds are patched from the buffer's own
// byte-space patch table instead.
//
// The rebuild on every end_edit decodes the whole buffer rather than
// patching the three trees incrementally around the edited window; see
// DESIGN.md for why that trade was made.
package decode
