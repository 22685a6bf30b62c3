package engine

import (
	"log/slog"

	"github.com/dshills/keystorm/internal/engine/buffer"
	"github.com/dshills/keystorm/internal/engine/encoding"
)

// Default configuration values.
const (
	DefaultTabWidth       = 4
	DefaultMaxUndoEntries = 1000
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabWidth sets the tab width for the engine.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithLineEnding sets the line ending style for the engine.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithEncoding selects the byte<->codepoint descriptor decode.Interpretation
// decodes the buffer with. Defaults to encoding.UTF8.
func WithEncoding(desc encoding.Descriptor) Option {
	return func(e *Engine) {
		if desc != nil {
			e.desc = desc
		}
	}
}

// WithLogger sets the structured logger the engine reports edit-pipeline
// activity to. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
