package document

import (
	"log/slog"

	"github.com/dshills/undocore/internal/event"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithLogger sets the logger used for ledger diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPublisher sets where modified-state changes are announced.
func WithPublisher(p event.Publisher) Option {
	return func(d *Document) {
		d.publisher = p
	}
}
