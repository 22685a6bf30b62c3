package encoding

import (
	"unicode/utf8"

	gdencoding "github.com/gdamore/encoding"
)

// CP437 is a legacy single-byte DOS code page, wired through
// github.com/gdamore/encoding to show the registry accepting an
// encoding beyond the three Unicode transformation formats.
var CP437 Descriptor = cp437Descriptor{}

type cp437Descriptor struct{}

func (cp437Descriptor) Name() string          { return "cp437" }
func (cp437Descriptor) MaxCodepointBytes() int { return 1 }

func (cp437Descriptor) DecodeOne(s []byte) (rune, int, bool) {
	if len(s) == 0 {
		return ReplacementCodepoint, 0, false
	}
	decoded, err := gdencoding.CP437.NewDecoder().Bytes(s[:1])
	if err != nil || len(decoded) == 0 {
		return ReplacementCodepoint, 1, false
	}
	r, size := utf8.DecodeRune(decoded)
	if r == utf8.RuneError || size != len(decoded) {
		return ReplacementCodepoint, 1, false
	}
	return r, 1, true
}

func (cp437Descriptor) Encode(r rune) []byte {
	encoded, err := gdencoding.CP437.NewEncoder().Bytes([]byte(string(r)))
	if err != nil {
		return []byte{'?'}
	}
	return encoded
}
