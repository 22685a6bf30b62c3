package encoding

import "unicode/utf8"

// UTF8 is the descriptor for the byte buffer's native encoding.
var UTF8 Descriptor = utf8Descriptor{}

type utf8Descriptor struct{}

func (utf8Descriptor) Name() string          { return "utf-8" }
func (utf8Descriptor) MaxCodepointBytes() int { return utf8.UTFMax }

func (utf8Descriptor) DecodeOne(s []byte) (rune, int, bool) {
	if len(s) == 0 {
		return ReplacementCodepoint, 0, false
	}
	r, size := utf8.DecodeRune(s)
	if r == utf8.RuneError && size <= 1 {
		return ReplacementCodepoint, max(size, 1), false
	}
	return r, size, true
}

func (utf8Descriptor) Encode(r rune) []byte {
	buf := make([]byte, utf8.UTFMax)
	n := utf8.EncodeRune(buf, r)
	return buf[:n]
}
