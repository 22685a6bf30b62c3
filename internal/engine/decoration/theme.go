package decoration

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ThemeEntry names one styled range for serialization: a scope label
// (e.g. "keyword.control"), its range, and its style.
type ThemeEntry struct {
	Scope      string
	Start, End Offset
	Style      Style
}

// LoadTheme parses a theme document of the form:
//
//	{"entries":[{"scope":"keyword","start":0,"end":5,"fg":"#ff0000","bold":true}, ...]}
//
// using field-at-a-time gjson access rather than a full struct unmarshal,
// so a field missing from an entry takes its zero value. An fg or bg
// value that is not a valid hex color fails the whole load.
func LoadTheme(doc []byte) ([]ThemeEntry, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("decoration: invalid theme JSON")
	}
	result := gjson.GetBytes(doc, "entries")
	if !result.IsArray() {
		return nil, fmt.Errorf("decoration: theme document has no \"entries\" array")
	}

	var entries []ThemeEntry
	var parseErr error
	result.ForEach(func(_, entry gjson.Result) bool {
		style := Style{}
		if fg := entry.Get("fg"); fg.Exists() {
			c, err := colorful.Hex(fg.String())
			if err != nil {
				parseErr = fmt.Errorf("decoration: entry %q: invalid fg color %q: %w", entry.Get("scope").String(), fg.String(), err)
				return false
			}
			style.Foreground, style.HasFG = c, true
		}
		if bg := entry.Get("bg"); bg.Exists() {
			c, err := colorful.Hex(bg.String())
			if err != nil {
				parseErr = fmt.Errorf("decoration: entry %q: invalid bg color %q: %w", entry.Get("scope").String(), bg.String(), err)
				return false
			}
			style.Background, style.HasBG = c, true
		}
		if entry.Get("bold").Bool() {
			style.Attrs |= Bold
		}
		if entry.Get("italic").Bool() {
			style.Attrs |= Italic
		}
		if entry.Get("underline").Bool() {
			style.Attrs |= Underline
		}
		if entry.Get("strikethrough").Bool() {
			style.Attrs |= Strikethrough
		}
		entries = append(entries, ThemeEntry{
			Scope: entry.Get("scope").String(),
			Start: entry.Get("start").Int(),
			End:   entry.Get("end").Int(),
			Style: style,
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return entries, nil
}

// SaveTheme serializes entries to the document format LoadTheme parses,
// building the JSON one field at a time with sjson rather than marshaling
// a struct, so existing unrelated document fields (e.g. a theme "name")
// are preserved when base is non-empty.
func SaveTheme(base []byte, entries []ThemeEntry) ([]byte, error) {
	doc := base
	if len(doc) == 0 {
		doc = []byte(`{"entries":[]}`)
	}
	var err error
	for i, e := range entries {
		prefix := fmt.Sprintf("entries.%d.", i)
		if doc, err = sjson.SetBytes(doc, prefix+"scope", e.Scope); err != nil {
			return nil, err
		}
		if doc, err = sjson.SetBytes(doc, prefix+"start", e.Start); err != nil {
			return nil, err
		}
		if doc, err = sjson.SetBytes(doc, prefix+"end", e.End); err != nil {
			return nil, err
		}
		if e.Style.HasFG {
			if doc, err = sjson.SetBytes(doc, prefix+"fg", e.Style.Foreground.Hex()); err != nil {
				return nil, err
			}
		}
		if e.Style.HasBG {
			if doc, err = sjson.SetBytes(doc, prefix+"bg", e.Style.Background.Hex()); err != nil {
				return nil, err
			}
		}
		if e.Style.Attrs.Has(Bold) {
			if doc, err = sjson.SetBytes(doc, prefix+"bold", true); err != nil {
				return nil, err
			}
		}
		if e.Style.Attrs.Has(Italic) {
			if doc, err = sjson.SetBytes(doc, prefix+"italic", true); err != nil {
				return nil, err
			}
		}
		if e.Style.Attrs.Has(Underline) {
			if doc, err = sjson.SetBytes(doc, prefix+"underline", true); err != nil {
				return nil, err
			}
		}
		if e.Style.Attrs.Has(Strikethrough) {
			if doc, err = sjson.SetBytes(doc, prefix+"strikethrough", true); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}
