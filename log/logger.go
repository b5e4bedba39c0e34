// Package log builds the host's slog logger on top of charmbracelet/log.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Output formats.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

type loggerConfig struct {
	level     slog.Level
	output    io.Writer
	prefix    string
	format    string
	addSource bool
}

func defaultLoggerConfig() loggerConfig {
	return loggerConfig{
		level:  slog.LevelInfo,
		output: os.Stderr,
		prefix: "scripthost",
		format: FormatText,
	}
}

// Option configures the logger.
type Option func(*loggerConfig)

// WithLevel sets the minimum level reported.
func WithLevel(level slog.Level) Option {
	return func(c *loggerConfig) {
		c.level = level
	}
}

// WithOutput sets the destination. Default: os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(c *loggerConfig) {
		if w != nil {
			c.output = w
		}
	}
}

// WithPrefix sets the prefix printed before every message.
func WithPrefix(prefix string) Option {
	return func(c *loggerConfig) {
		c.prefix = prefix
	}
}

// WithFormat selects text, json or logfmt output.
func WithFormat(format string) Option {
	return func(c *loggerConfig) {
		c.format = format
	}
}

// WithSource enables reporting of the calling file and line.
func WithSource(enabled bool) Option {
	return func(c *loggerConfig) {
		c.addSource = enabled
	}
}

// NewLogger creates a slog.Logger whose handler is a charmbracelet logger.
func NewLogger(opts ...Option) *slog.Logger {
	cfg := defaultLoggerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	handler := charmlog.NewWithOptions(cfg.output, charmlog.Options{
		Level:           charmlog.Level(cfg.level),
		Prefix:          cfg.prefix,
		ReportCaller:    cfg.addSource,
		ReportTimestamp: true,
		Formatter:       formatter(cfg.format),
	})
	return slog.New(handler)
}

// SetDefault installs a new logger as the slog default and returns it.
func SetDefault(opts ...Option) *slog.Logger {
	l := NewLogger(opts...)
	slog.SetDefault(l)
	return l
}

// ParseLevel converts "debug", "info", "warn" or "error".
func ParseLevel(s string) (slog.Level, error) {
	lvl, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return slog.Level(lvl), nil
}

func formatter(format string) charmlog.Formatter {
	switch format {
	case FormatJSON:
		return charmlog.JSONFormatter
	case FormatLogfmt:
		return charmlog.LogfmtFormatter
	default:
		return charmlog.TextFormatter
	}
}
