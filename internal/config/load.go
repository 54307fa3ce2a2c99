package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load builds the configuration from defaults, the file at path and the
// environment, then validates it. An empty path or a missing file yields
// the defaults with environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults only
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			format, err := FormatOf(path)
			if err != nil {
				return Config{}, err
			}
			if err := decode(&cfg, path, format, bytes.NewReader(data)); err != nil {
				return Config{}, err
			}
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromReader decodes r on top of the defaults. The environment is not
// consulted.
func LoadFromReader(r io.Reader, format Format) (Config, error) {
	cfg := Default()
	if err := decode(&cfg, "<reader>", format, r); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(cfg *Config, source string, format Format, r io.Reader) error {
	switch format {
	case FormatTOML:
		return decodeTOML(cfg, source, r)
	case FormatYAML:
		return decodeYAML(cfg, source, r)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func decodeTOML(cfg *Config, source string, r io.Reader) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}

	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	var serr *toml.StrictMissingError
	if errors.As(err, &serr) && len(serr.Errors) > 0 {
		perr.Line, perr.Column = serr.Errors[0].Position()
		perr.Message = "unknown keys: " + strings.Join(unknownKeys(serr), ", ")
	}
	return perr
}

func unknownKeys(serr *toml.StrictMissingError) []string {
	keys := make([]string, 0, len(serr.Errors))
	for _, e := range serr.Errors {
		keys = append(keys, strings.Join(e.Key(), "."))
	}
	return keys
}

func decodeYAML(cfg *Config, source string, r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err == nil || errors.Is(err, io.EOF) {
		// An empty document leaves the defaults alone.
		return nil
	}
	return &ParseError{Path: source, Message: err.Error(), Err: err}
}
