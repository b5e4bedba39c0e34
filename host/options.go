package host

import (
	"log/slog"

	"github.com/reglet-dev/scripthost/application/preprocess"
	"github.com/reglet-dev/scripthost/domain/ports"
	"github.com/reglet-dev/scripthost/host/registry"
	"github.com/reglet-dev/scripthost/infrastructure/javascript"
)

// runnerConfig holds configuration for a Runner.
type runnerConfig struct {
	logger       *slog.Logger
	extension    string
	modulePath   []string
	optimize     bool
	strict       bool
	maxCallStack int
	registry     *registry.Registry
	observer     ports.ExecutionObserver
}

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{
		logger:       slog.Default(),
		extension:    preprocess.DefaultExtension,
		optimize:     true,
		maxCallStack: javascript.DefaultMaxCallStackSize,
	}
}

// Option configures a Runner.
type Option func(*runnerConfig)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *runnerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithExtension sets the dependency module extension. Default: ".wasm".
func WithExtension(ext string) Option {
	return func(c *runnerConfig) {
		if ext != "" {
			c.extension = ext
		}
	}
}

// WithModulePath adds directories searched for dependency modules that are
// neither next to the script nor registered.
func WithModulePath(dirs ...string) Option {
	return func(c *runnerConfig) {
		c.modulePath = append(c.modulePath, dirs...)
	}
}

// WithOptimize selects the optimizing WebAssembly compiler. Default: true.
func WithOptimize(optimize bool) Option {
	return func(c *runnerConfig) {
		c.optimize = optimize
	}
}

// WithStrict compiles scripts in strict mode. Default: false.
func WithStrict(strict bool) Option {
	return func(c *runnerConfig) {
		c.strict = strict
	}
}

// WithMaxCallStackSize bounds script recursion.
func WithMaxCallStackSize(size int) Option {
	return func(c *runnerConfig) {
		if size > 0 {
			c.maxCallStack = size
		}
	}
}

// WithRegistry offers Go-native modules to scripts.
func WithRegistry(r *registry.Registry) Option {
	return func(c *runnerConfig) {
		c.registry = r
	}
}

// WithObserver receives load and execution outcomes, e.g. for metrics.
func WithObserver(o ports.ExecutionObserver) Option {
	return func(c *runnerConfig) {
		c.observer = o
	}
}
