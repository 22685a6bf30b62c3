package buffer

import (
	"io"
	"sync/atomic"
)

// FileSource is the narrow collaborator a Buffer constructor accepts in
// place of a bare io.Reader when the content comes from identifiable
// storage: besides supplying bytes, it names a canonical path so the
// buffer can be deduplicated against other buffers backed by the same
// file.
type FileSource interface {
	io.Reader
	// CanonicalPath returns the source's stable identity and true, or
	// ("", false) for a source with no durable identity (e.g. a scratch
	// buffer), in which case the buffer is assigned a pooled anonymous id.
	CanonicalPath() (string, bool)
}

// anonymousIDCounter hands out stable identities to buffers with no
// backing file.
var anonymousIDCounter uint64

// Identity names a buffer uniquely: either a file's canonical path, or a
// pooled anonymous integer id.
type Identity struct {
	path      string
	anonymous uint64
	hasPath   bool
}

// String returns the canonical path, or "untitled-<n>" for an anonymous
// identity.
func (id Identity) String() string {
	if id.hasPath {
		return id.path
	}
	return "untitled-" + itoa(id.anonymous)
}

// Path returns the canonical path and true, or ("", false) if this
// identity is anonymous.
func (id Identity) Path() (string, bool) {
	return id.path, id.hasPath
}

func newAnonymousIdentity() Identity {
	return Identity{anonymous: atomic.AddUint64(&anonymousIDCounter, 1)}
}

func newPathIdentity(path string) Identity {
	return Identity{path: path, hasPath: true}
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// NewBufferFromSource creates a buffer from src, reading it fully and
// normalizing line endings the same way NewBufferFromReader does, and
// recording src's canonical path (or a fresh anonymous id) as the
// buffer's Identity.
func NewBufferFromSource(src FileSource, opts ...Option) (*Buffer, error) {
	b, err := NewBufferFromReader(src, opts...)
	if err != nil {
		return nil, err
	}
	if path, ok := src.CanonicalPath(); ok {
		b.identity = newPathIdentity(path)
	} else {
		b.identity = newAnonymousIdentity()
	}
	return b, nil
}

// Identity returns the buffer's identity, assigning a fresh anonymous one
// on first use if the buffer was not created via NewBufferFromSource.
func (b *Buffer) Identity() Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.identity.hasPath && b.identity.anonymous == 0 {
		b.identity = newAnonymousIdentity()
	}
	return b.identity
}
