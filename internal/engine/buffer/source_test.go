package buffer

import "strings"

type stringSource struct {
	*strings.Reader
	path string
	ok   bool
}

func (s stringSource) CanonicalPath() (string, bool) { return s.path, s.ok }

func newStringSource(text, path string) stringSource {
	return stringSource{Reader: strings.NewReader(text), path: path, ok: path != ""}
}
