package decoration

import "github.com/lucasb-eyer/go-colorful"

// Attr is a bitset of text attributes a Style can carry alongside color.
type Attr uint8

const (
	Bold Attr = 1 << iota
	Italic
	Underline
	Strikethrough
)

// Has reports whether attr is set.
func (a Attr) Has(attr Attr) bool { return a&attr != 0 }

// Style pairs a foreground/background color with a bitset of attributes.
// Either color may be the zero Color; the HasFG/HasBG fields tell
// callers whether to fall back to a theme default rather than painting
// black.
type Style struct {
	Foreground   colorful.Color
	Background   colorful.Color
	HasFG, HasBG bool
	Attrs        Attr
}

// NewStyle returns a Style with the given foreground color set.
func NewStyle(fg colorful.Color) Style {
	return Style{Foreground: fg, HasFG: true}
}

// WithBackground returns a copy of s with the background color set.
func (s Style) WithBackground(bg colorful.Color) Style {
	s.Background = bg
	s.HasBG = true
	return s
}

// WithAttr returns a copy of s with attr added to its attribute set.
func (s Style) WithAttr(attr Attr) Style {
	s.Attrs |= attr
	return s
}

// Blend linearly interpolates s toward over by t in [0,1], using
// go-colorful's perceptual Lab blending. Background colors blend only if
// both sides carry one; otherwise over's background wins when present.
// Attributes from over are added to s's own.
func (s Style) Blend(over Style, t float64) Style {
	out := s
	if s.HasFG && over.HasFG {
		out.Foreground = s.Foreground.BlendLab(over.Foreground, t)
		out.HasFG = true
	} else if over.HasFG {
		out.Foreground = over.Foreground
		out.HasFG = true
	}
	switch {
	case s.HasBG && over.HasBG:
		out.Background = s.Background.BlendLab(over.Background, t)
		out.HasBG = true
	case over.HasBG:
		out.Background = over.Background
		out.HasBG = true
	}
	out.Attrs = s.Attrs | over.Attrs
	return out
}
