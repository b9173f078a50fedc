package app

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Setting keys, shared by flags, environment variables and config files.
const (
	KeyConfig          = "config"
	KeyModulesPath     = "modules-path"
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyFormat          = "format"
	KeyHealthcheckPort = "healthcheck-port"
)

// EnvPrefix prefixes environment variables, e.g. NODEGRAPH_LOG_LEVEL.
const EnvPrefix = "NODEGRAPH"

// Defaults is the configuration used when nothing else is set.
var Defaults = Config{
	ModulesPath:  "modules",
	LogLevel:     "info",
	LogFormat:    "text",
	OutputFormat: "text",
}

// ResolveSettings fills every field of cfg not named in explicit from the
// environment, then from cfg.ConfigFile when set, then from Defaults.
func ResolveSettings(cfg Config, explicit map[string]bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyModulesPath, Defaults.ModulesPath)
	v.SetDefault(KeyLogLevel, Defaults.LogLevel)
	v.SetDefault(KeyLogFormat, Defaults.LogFormat)
	v.SetDefault(KeyFormat, Defaults.OutputFormat)
	v.SetDefault(KeyHealthcheckPort, Defaults.HealthcheckPort)

	if !explicit[KeyConfig] {
		cfg.ConfigFile = v.GetString(KeyConfig)
	}
	if cfg.ConfigFile != "" {
		v.SetConfigFile(cfg.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", cfg.ConfigFile, err)
		}
	}

	str := func(key string, dst *string) {
		if !explicit[key] {
			*dst = v.GetString(key)
		}
	}
	str(KeyModulesPath, &cfg.ModulesPath)
	str(KeyLogLevel, &cfg.LogLevel)
	str(KeyLogFormat, &cfg.LogFormat)
	str(KeyFormat, &cfg.OutputFormat)
	if !explicit[KeyHealthcheckPort] {
		cfg.HealthcheckPort = v.GetInt(KeyHealthcheckPort)
	}
	return cfg, nil
}
