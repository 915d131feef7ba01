package yulsmt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents the configuration of an encoding session.
type Config struct {
	// Sort of program variables: "int" or "bv".
	Sort string `yaml:"sort"`

	// Leave variables unconstrained when their value cannot be encoded.
	UnknownOnUnsupported bool `yaml:"unknown_on_unsupported"`

	// Solver timeout per check. Zero disables the timeout.
	Timeout time.Duration `yaml:"timeout"`

	Log LogConfig `yaml:"log"`
}

// LogConfig represents the logging configuration.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Supported values of Config.Sort.
const (
	SortNameInt = "int"
	SortNameBV  = "bv"
)

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() Config {
	return Config{
		Sort: SortNameInt,
		Log:  LogConfig{Level: "info"},
	}
}

// ReadConfigFile reads a YAML configuration file. Fields not set in the file
// keep their default values.
func ReadConfigFile(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(buf)
}

// ParseConfig parses a YAML configuration and validates it.
func ParseConfig(buf []byte) (Config, error) {
	config := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate returns an error if the configuration is invalid.
func (c Config) Validate() error {
	switch c.Sort {
	case SortNameInt, SortNameBV:
	default:
		return fmt.Errorf("invalid sort: %q", c.Sort)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}

	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	return nil
}

// VariableSort returns the sort of program variables.
func (c Config) VariableSort() Sort {
	if c.Sort == SortNameBV {
		return WordSort
	}
	return IntSort
}

// NewLogger returns a logger built from the log configuration.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
