package encoding

// ReplacementCodepoint is emitted in place of any byte sequence a
// Descriptor cannot decode; decoding always advances by at least one
// byte so a run of invalid bytes terminates.
const ReplacementCodepoint = '�'

// Descriptor converts between a byte representation and Unicode
// codepoints for one text encoding.
type Descriptor interface {
	// Name is the descriptor's registry key, e.g. "utf-8", "utf-16le".
	Name() string

	// MaxCodepointBytes is the largest number of bytes DecodeOne can
	// consume for a single codepoint in this encoding.
	MaxCodepointBytes() int

	// DecodeOne decodes the codepoint at the start of s. If s begins
	// with a well-formed codepoint, it returns the rune, the number of
	// bytes consumed, and valid=true. Otherwise it returns
	// ReplacementCodepoint, the number of bytes to skip (at least 1),
	// and valid=false.
	DecodeOne(s []byte) (r rune, advance int, valid bool)

	// Encode returns the byte representation of r in this encoding.
	Encode(r rune) []byte
}
