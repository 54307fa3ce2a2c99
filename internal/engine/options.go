package engine

import (
	"log/slog"

	"github.com/dshills/undocore/internal/engine/history"
	"github.com/dshills/undocore/internal/event"
)

// DefaultTabWidth is the tab width when none is configured.
const DefaultTabWidth = 4

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine. Initial content does
// not count as a modification.
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

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(n int) Option {
	return WithHistoryOptions(history.WithMaxEntries(n))
}

// WithHistoryOptions passes options through to the undo history.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, opts...)
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithLogger sets the logger shared by the engine's components.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPublisher sets where document and history events are published.
func WithPublisher(p event.Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}
