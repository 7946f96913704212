package app

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DataDir   string // holds templates/, extensions/ and build/
	ModuleDir string // host module source tree generated plugins link against

	GoBinary    string
	GoVersion   string
	KeepSources bool

	LogFormat string
	LogLevel  string

	// Derived from DataDir by NewConfig.
	TemplatePath string
	ExtensionDir string
	BuildDir     string
}

// Layout of the data directory.
const (
	TemplateFile    = "templates/messenger.go.tmpl"
	ExtensionSubdir = "extensions"
	BuildSubdir     = "build"
)

// NewConfig validates cfg and fills in the paths derived from DataDir.
// Explicitly set derived paths are kept.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("DataDir is a required configuration field and cannot be empty")
	}
	if cfg.ModuleDir == "" {
		cfg.ModuleDir = "."
	}
	if cfg.GoBinary == "" {
		cfg.GoBinary = "go"
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "warn"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.TemplatePath == "" {
		cfg.TemplatePath = filepath.Join(cfg.DataDir, filepath.FromSlash(TemplateFile))
	}
	if cfg.ExtensionDir == "" {
		cfg.ExtensionDir = filepath.Join(cfg.DataDir, ExtensionSubdir)
	}
	if cfg.BuildDir == "" {
		cfg.BuildDir = filepath.Join(cfg.DataDir, BuildSubdir)
	}
	return &cfg, nil
}
