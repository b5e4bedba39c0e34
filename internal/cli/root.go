// Package cli implements the scripthost command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/scripthost/config"
	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/host"
	"github.com/reglet-dev/scripthost/host/registry"
	"github.com/reglet-dev/scripthost/log"
	"github.com/reglet-dev/scripthost/metrics"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

// app carries state shared by subcommands after flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	var configFile string

	root := &cobra.Command{
		Use:           "scripthost",
		Short:         "Load, bind and execute parameterized scripts",
		Long:          `scripthost compiles a script in memory, binds its entry method and runs it with named parameters and images.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.LoadOptions{ConfigFile: configFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = log.SetDefault(
				log.WithLevel(level),
				log.WithFormat(cfg.LogFormat),
				log.WithSource(cfg.LogSource),
				log.WithOutput(cmd.ErrOrStderr()),
			)
			a.metrics = metrics.NewCollector()
			return nil
		},
	}

	defaults := config.DefaultConfig()
	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "YAML configuration file")
	pf.StringSlice("module-path", nil, "directories searched for dependency modules")
	pf.String("extension", defaults.Extension, "dependency module extension")
	pf.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	pf.String("log-format", defaults.LogFormat, "log format (text, json, logfmt)")
	pf.Bool("log-source", defaults.LogSource, "report the source file and line of log records")
	pf.Bool("optimize", defaults.Optimize, "use the optimizing WebAssembly compiler")
	pf.Bool("strict", defaults.Strict, "compile scripts in strict mode")
	pf.Int("max-call-stack", defaults.MaxCallStack, "script call stack limit (0 for the default)")

	root.AddCommand(newRunCommand(a), newDescribeCommand(a), newVersionCommand())
	return root
}

// Execute runs the command line and prints any error with its status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v (status 0x%08X)\n", err, uint32(errors.Status(err)))
	}
	return err
}

// newRunner builds a runner from the loaded configuration.
func (a *app) newRunner(ctx context.Context) (*host.Runner, error) {
	reg, err := registry.New(
		registry.WithMiddleware(
			registry.PanicRecoveryMiddleware(),
			registry.LoggingMiddleware(a.logger),
			a.metrics.Middleware(),
		),
		registry.WithModule("host", hostModule(a.logger)),
	)
	if err != nil {
		return nil, err
	}

	return host.NewRunner(ctx,
		host.WithLogger(a.logger),
		host.WithExtension(a.cfg.Extension),
		host.WithModulePath(a.cfg.ModulePath...),
		host.WithOptimize(a.cfg.Optimize),
		host.WithStrict(a.cfg.Strict),
		host.WithMaxCallStackSize(a.cfg.MaxCallStack),
		host.WithRegistry(reg),
		host.WithObserver(a.metrics),
	)
}

// load binds entry in the script at path. A script without a usable entry
// is an error on the command line.
func (a *app) load(ctx context.Context, runner *host.Runner, path, entry string) error {
	if err := runner.LoadScript(ctx, path, entry); err != nil {
		return err
	}
	if !runner.Initialized() {
		return runner.LoadError()
	}
	return nil
}
