package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader reads the config file.
type Loader struct {
	logger      *slog.Logger
	defaultPath func() (string, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithDefaultPath overrides how the implicit config location is found.
func WithDefaultPath(fn func() (string, error)) LoaderOption {
	return func(ld *Loader) { ld.defaultPath = fn }
}

// NewLoader creates a new Loader instance.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger:      slog.New(slog.DiscardHandler),
		defaultPath: DefaultPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and validates the config at path. With an empty path the
// default location is used, and a missing file there yields defaults.
// A missing file at an explicit path is ErrConfigNotFound.
func (l *Loader) Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := l.defaultPath()
		if err != nil {
			l.logger.Debug("no default config location, using defaults", "error", err)
			return NewDefaultConfig(), nil
		}
		path = p
	}

	cfg := NewDefaultConfig()
	loaded, err := loadYAMLFile(path, cfg)
	if err != nil {
		l.logger.Warn("failed to load config", "path", path, "error", err)
		return nil, err
	}
	if !loaded {
		if explicit {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		l.logger.Debug("config file not found, using defaults", "path", path)
		return cfg, nil
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// loadYAMLFile reads a YAML file and unmarshals it into the target struct.
// Returns (true, nil) if the file was found and parsed, (false, nil) if the
// file does not exist, or (false, error) on failure.
func loadYAMLFile(path string, target any) (bool, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("parse %s: %w: %v", path, ErrInvalidYAML, err)
	}

	return true, nil
}
