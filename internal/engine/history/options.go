package history

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dshills/undocore/internal/event"
)

// DefaultMaxEntries is the done stack limit when none is configured.
const DefaultMaxEntries = 1000

// Policy decides what happens to a command whose undo or redo fails.
type Policy int

const (
	// PolicyDiscard drops the failed command from both stacks.
	PolicyDiscard Policy = iota

	// PolicyRestore pushes the failed command back onto the stack it was
	// popped from.
	PolicyRestore
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyDiscard:
		return "discard"
	case PolicyRestore:
		return "restore"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a configuration name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discard":
		return PolicyDiscard, nil
	case "restore":
		return PolicyRestore, nil
	default:
		return PolicyDiscard, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// settings holds the tunables shared by New and Configure.
type settings struct {
	maxEntries int
	window     time.Duration
	policy     Policy
	clock      func() time.Time
	logger     *slog.Logger
	publisher  event.Publisher
}

// Option configures a History.
type Option func(*settings)

// WithMaxEntries limits the done stack. Values <= 0 select
// DefaultMaxEntries.
func WithMaxEntries(n int) Option {
	return func(s *settings) {
		if n <= 0 {
			n = DefaultMaxEntries
		}
		s.maxEntries = n
	}
}

// WithCollationWindow only lets a command collate into the top entry when
// the top was pushed or last extended within d. Zero disables the limit.
func WithCollationWindow(d time.Duration) Option {
	return func(s *settings) {
		if d < 0 {
			d = 0
		}
		s.window = d
	}
}

// WithFailurePolicy sets what happens to commands whose undo or redo fails.
func WithFailurePolicy(p Policy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher sets where history changes are announced.
func WithPublisher(p event.Publisher) Option {
	return func(s *settings) {
		s.publisher = p
	}
}
