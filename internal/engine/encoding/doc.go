// Package encoding describes how a sequence of bytes is interpreted as a
// sequence of Unicode codepoints. It is deliberately small: one
// interface, one registry, and a handful of concrete descriptors.
//
// A Descriptor is dispatched once, at interpretation construction time
// (see the decode package); per-codepoint decode/encode never branches on
// encoding name again. UTF-8 is implemented directly against
// unicode/utf8 since it is already the byte buffer's native
// representation. UTF-16LE and UTF-16BE are implemented against
// golang.org/x/text/encoding/unicode, the same transcoding package the
// wider ecosystem reaches for rather than hand-rolling surrogate-pair
// arithmetic. One legacy 8-bit code page (CP437) is wired through
// github.com/gdamore/encoding to demonstrate that the registry accepts
// encodings beyond the three built in.
package encoding
