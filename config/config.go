// Package config loads the scripthost configuration and provides helpers for
// map-shaped documents such as parameter files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/reglet-dev/scripthost/application/validation"
)

// EnvPrefix prefixes every environment override, e.g. SCRIPTHOST_LOG_LEVEL.
const EnvPrefix = "SCRIPTHOST"

// Config is the runtime configuration of the command-line host.
type Config struct {
	// ModulePath lists directories searched for dependency modules.
	ModulePath []string `mapstructure:"module_path"`

	// Extension is appended to dependency names that lack it.
	Extension string `mapstructure:"extension" validate:"required,startswith=."`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat is one of text, json, logfmt.
	LogFormat string `mapstructure:"log_format" validate:"oneof=text json logfmt"`

	// MetricsFile receives a Prometheus textfile after each run when set.
	MetricsFile string `mapstructure:"metrics_file"`

	MaxCallStack int  `mapstructure:"max_call_stack" validate:"gte=0"`
	LogSource    bool `mapstructure:"log_source"`
	Optimize     bool `mapstructure:"optimize"`
	Strict       bool `mapstructure:"strict"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Extension: ".wasm",
		LogLevel:  "info",
		LogFormat: "text",
		Optimize:  true,
	}
}

// LoadOptions controls where Load looks for overrides.
type LoadOptions struct {
	// Flags are bound by key; flag names use dashes (module-path for module_path).
	Flags *pflag.FlagSet

	// ConfigFile is an optional YAML file. A missing file is an error.
	ConfigFile string
}

// flagKeys maps configuration keys to command-line flag names.
var flagKeys = map[string]string{
	"module_path":    "module-path",
	"extension":      "extension",
	"log_level":      "log-level",
	"log_format":     "log-format",
	"log_source":     "log-source",
	"metrics_file":   "metrics-file",
	"max_call_stack": "max-call-stack",
	"optimize":       "optimize",
	"strict":         "strict",
}

// Load layers defaults, the config file, SCRIPTHOST_* environment variables
// and changed flags, in increasing precedence, and validates the result.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("module_path", defaults.ModulePath)
	v.SetDefault("extension", defaults.Extension)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("metrics_file", defaults.MetricsFile)
	v.SetDefault("max_call_stack", defaults.MaxCallStack)
	v.SetDefault("log_source", defaults.LogSource)
	v.SetDefault("optimize", defaults.Optimize)
	v.SetDefault("strict", defaults.Strict)

	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, fmt.Errorf("config file not found: %s", opts.ConfigFile)
		}
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", opts.ConfigFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		ModulePath:   modulePath(v.Get("module_path")),
		Extension:    v.GetString("extension"),
		LogLevel:     strings.ToLower(v.GetString("log_level")),
		LogFormat:    strings.ToLower(v.GetString("log_format")),
		MetricsFile:  v.GetString("metrics_file"),
		MaxCallStack: v.GetInt("max_call_stack"),
		LogSource:    v.GetBool("log_source"),
		Optimize:     v.GetBool("optimize"),
		Strict:       v.GetBool("strict"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// modulePath accepts a list (file, flag) or an OS path list string (environment).
func modulePath(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = filepath.SplitList(val)
	case []string:
		for _, s := range val {
			parts = append(parts, filepath.SplitList(s)...)
		}
	case []any:
		for _, s := range val {
			parts = append(parts, filepath.SplitList(fmt.Sprint(s))...)
		}
	}

	var dirs []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			dirs = append(dirs, p)
		}
	}
	return dirs
}
