package encoding

import (
	"unicode/utf16"
	"unicode/utf8"

	gotextencoding "golang.org/x/text/encoding"
	xunicode "golang.org/x/text/encoding/unicode"
)

// UTF16LE and UTF16BE are the little- and big-endian UTF-16 descriptors,
// transcoded through golang.org/x/text/encoding/unicode rather than
// hand-rolled surrogate-pair arithmetic.
var (
	UTF16LE Descriptor = newUTF16Descriptor("utf-16le", xunicode.LittleEndian)
	UTF16BE Descriptor = newUTF16Descriptor("utf-16be", xunicode.BigEndian)
)

type utf16Descriptor struct {
	name string
	enc  gotextencoding.Encoding
	le   bool
}

func newUTF16Descriptor(name string, order xunicode.Endianness) *utf16Descriptor {
	return &utf16Descriptor{
		name: name,
		enc:  xunicode.UTF16(order, xunicode.IgnoreBOM),
		le:   order == xunicode.LittleEndian,
	}
}

func (d *utf16Descriptor) Name() string          { return d.name }
func (d *utf16Descriptor) MaxCodepointBytes() int { return 4 }

func (d *utf16Descriptor) unit(s []byte) uint16 {
	if d.le {
		return uint16(s[0]) | uint16(s[1])<<8
	}
	return uint16(s[1]) | uint16(s[0])<<8
}

// DecodeOne reads the leading one or two 16-bit code units (a surrogate
// pair counts as one codepoint) and transcodes them to UTF-8 through the
// x/text decoder so the actual byte-order and surrogate handling comes
// from the library, not a reimplementation; the resulting rune is then
// read back out with unicode/utf8.
func (d *utf16Descriptor) DecodeOne(s []byte) (rune, int, bool) {
	if len(s) < 2 {
		return ReplacementCodepoint, max(len(s), 1), false
	}
	n := 2
	if utf16.IsSurrogate(rune(d.unit(s))) {
		if len(s) < 4 {
			return ReplacementCodepoint, 2, false
		}
		n = 4
	}
	decoded, err := d.enc.NewDecoder().Bytes(s[:n])
	if err != nil || len(decoded) == 0 {
		return ReplacementCodepoint, n, false
	}
	r, size := utf8.DecodeRune(decoded)
	if r == utf8.RuneError || size != len(decoded) {
		return ReplacementCodepoint, n, false
	}
	return r, n, true
}

func (d *utf16Descriptor) Encode(r rune) []byte {
	encoded, err := d.enc.NewEncoder().Bytes([]byte(string(r)))
	if err != nil {
		return nil
	}
	return encoded
}
