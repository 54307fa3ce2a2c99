package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/undocore/internal/engine/history"
)

// Default values.
const (
	DefaultMaxEntries        = history.DefaultMaxEntries
	DefaultCollationWindow   = time.Second
	DefaultUndoFailurePolicy = "discard"
	DefaultLogLevel          = "info"
	DefaultTabWidth          = 4
	MaxTabWidth              = 16
)

// Config is the complete undocore configuration.
type Config struct {
	History HistoryConfig `toml:"history" yaml:"history"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
}

// HistoryConfig controls the undo history.
type HistoryConfig struct {
	// MaxEntries bounds the undo stack. Zero selects the default.
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`

	// CollationWindow is how long after the last edit a new edit may
	// still merge into it. Zero means no time limit.
	CollationWindow Duration `toml:"collation_window" yaml:"collation_window"`

	// UndoFailurePolicy is "discard" or "restore".
	UndoFailurePolicy string `toml:"undo_failure_policy" yaml:"undo_failure_policy"`
}

// LoggingConfig controls diagnostics.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// EditorConfig controls presentation.
type EditorConfig struct {
	TabWidth int `toml:"tab_width" yaml:"tab_width"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{
			MaxEntries:        DefaultMaxEntries,
			CollationWindow:   Duration(DefaultCollationWindow),
			UndoFailurePolicy: DefaultUndoFailurePolicy,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Editor: EditorConfig{
			TabWidth: DefaultTabWidth,
		},
	}
}

// Validate checks every value and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if c.History.MaxEntries < 0 {
		errs = append(errs, invalid("history.max_entries must be >= 0, got %d", c.History.MaxEntries))
	}
	if c.History.CollationWindow < 0 {
		errs = append(errs, invalid("history.collation_window must be >= 0, got %s", c.History.CollationWindow))
	}
	if _, err := c.History.Policy(); err != nil {
		errs = append(errs, invalid("history.undo_failure_policy: %v", err))
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, invalid("logging.level: %v", err))
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > MaxTabWidth {
		errs = append(errs, invalid("editor.tab_width must be between 1 and %d, got %d", MaxTabWidth, c.Editor.TabWidth))
	}

	return errors.Join(errs...)
}

// Policy returns the parsed undo failure policy.
func (h HistoryConfig) Policy() (history.Policy, error) {
	return history.ParsePolicy(h.UndoFailurePolicy)
}

// Options converts the settings into history options. The config must
// have been validated.
func (h HistoryConfig) Options() []history.Option {
	policy, _ := h.Policy()
	return []history.Option{
		history.WithMaxEntries(h.MaxEntries),
		history.WithCollationWindow(h.CollationWindow.Std()),
		history.WithFailurePolicy(policy),
	}
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// Duration is a time.Duration written as a string such as "750ms".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	return d.UnmarshalText([]byte(node.Value))
}
