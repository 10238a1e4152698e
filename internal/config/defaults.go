package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/modu-ai/license/internal/license"
)

// Default value constants.
const (
	DefaultOutput  = license.DefaultFilename
	DefaultComment = "//"

	// AppDir is the directory under the user config dir holding config.yaml.
	AppDir = "license"
	// FileName is the config file name.
	FileName = "config.yaml"
)

// NewDefaultConfig returns a Config with every default applied.
func NewDefaultConfig() *Config {
	return &Config{
		Output:  DefaultOutput,
		Comment: DefaultComment,
	}
}

// DefaultPath returns the per-user config file location,
// e.g. $XDG_CONFIG_HOME/license/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, AppDir, FileName), nil
}

// applyDefaults fills empty fields that have a non-empty default.
func applyDefaults(cfg *Config) {
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Comment == "" {
		cfg.Comment = DefaultComment
	}
}
