package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "UNDOCORE_"

// envSetters maps environment variables to the setting they override.
var envSetters = map[string]func(*Config, string) error{
	EnvPrefix + "HISTORY_MAX_ENTRIES": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.History.MaxEntries = n
		return nil
	},
	EnvPrefix + "HISTORY_COLLATION_WINDOW": func(c *Config, v string) error {
		return c.History.CollationWindow.UnmarshalText([]byte(v))
	},
	EnvPrefix + "HISTORY_UNDO_FAILURE_POLICY": func(c *Config, v string) error {
		c.History.UndoFailurePolicy = v
		return nil
	},
	EnvPrefix + "LOG_LEVEL": func(c *Config, v string) error {
		c.Logging.Level = v
		return nil
	},
	EnvPrefix + "EDITOR_TAB_WIDTH": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Editor.TabWidth = n
		return nil
	},
}

// ApplyEnv overrides cfg with UNDOCORE_* environment variables.
// Empty values are treated as unset.
func ApplyEnv(cfg *Config) error {
	for name, set := range envSetters {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			continue
		}
		if err := set(cfg, v); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, name, v, err)
		}
	}
	return nil
}
