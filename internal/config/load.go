package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrConfigValidation wraps settings validation failures, as opposed to TOML
// syntax or filesystem errors. Callers use errors.Is to distinguish them.
var ErrConfigValidation = errors.New("config validation failed")

// Load reads the settings file at path. A missing file yields the defaults;
// present fields override them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates TOML settings data. Fields absent from the
// data keep their default values. source names the file in error messages.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: %s contains unrecognized keys: %w", ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return cfg, nil
}

// decodeStrict re-decodes with unknown-field rejection to catch keys that
// toml.Unmarshal silently ignores.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}
