package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/catalog"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModulesPath string // hcl manifests
	ConfigFile  string

	LogFormat       string
	LogLevel        string
	OutputFormat    string
	HealthcheckPort int
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// NewConfig validates cfg and returns a copy with normalized values.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModulesPath == "" {
		return nil, errors.New("ModulesPath is a required configuration field and cannot be empty")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	if !slices.Contains(catalog.Formats, cfg.OutputFormat) {
		return nil, fmt.Errorf("invalid format %q: must be one of %s", cfg.OutputFormat, strings.Join(catalog.Formats, ", "))
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck-port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
