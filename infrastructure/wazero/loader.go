package wazero

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/domain/ports"
	"github.com/reglet-dev/scripthost/internal/hostctx"
)

// HostModule is the import namespace of the host functions.
const HostModule = "scripthost"

type loaderConfig struct {
	searchPath []string
	optimize   bool
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{optimize: true}
}

// Option configures a Loader.
type Option func(*loaderConfig)

// WithSearchPath sets the directories Resolve searches, in order.
func WithSearchPath(dirs ...string) Option {
	return func(c *loaderConfig) {
		c.searchPath = append(c.searchPath, dirs...)
	}
}

// WithOptimize selects the optimizing compiler (true) or the interpreter.
func WithOptimize(optimize bool) Option {
	return func(c *loaderConfig) {
		c.optimize = optimize
	}
}

// Loader compiles and instantiates dependency modules. Modules are cached by
// absolute path for the lifetime of the loader.
type Loader struct {
	runtime wazero.Runtime
	cfg     loaderConfig

	mu      sync.Mutex
	modules map[string]*Module
}

var (
	_ ports.ModuleLoader   = (*Loader)(nil)
	_ ports.ModuleResolver = (*Loader)(nil)
)

// NewLoader creates a wazero runtime with WASI and the host module instantiated.
func NewLoader(ctx context.Context, opts ...Option) (*Loader, error) {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rc := wazero.NewRuntimeConfigInterpreter()
	if cfg.optimize {
		rc = wazero.NewRuntimeConfig()
	}
	rt := wazero.NewRuntimeWithConfig(ctx, rc)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	if err := registerHostFunctions(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return &Loader{
		runtime: rt,
		cfg:     cfg,
		modules: make(map[string]*Module),
	}, nil
}

func registerHostFunctions(ctx context.Context, rt wazero.Runtime) error {
	_, err := rt.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, ptr, length uint32) {
			payload, ok := m.Memory().Read(ptr, length)
			if !ok {
				slog.WarnContext(ctx, "wazero: debug message out of range", "module", m.Name(), "ptr", ptr, "len", length)
				return
			}
			msg := string(payload)
			slog.DebugContext(ctx, "module notification", "module", m.Name(), "msg", msg)
			hostctx.Notifier(ctx)(msg)
		}).
		Export("debug").
		Instantiate(ctx)
	return err
}

// Load compiles and instantiates the module at path.
func (l *Loader) Load(ctx context.Context, path string) (ports.Module, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve module path: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.modules[abs]; ok {
		return m, nil
	}

	wasmBytes, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read module: %w", err)
	}

	m, err := l.instantiate(ctx, filepath.Base(abs), wasmBytes)
	if err != nil {
		return nil, err
	}
	m.path = abs
	l.modules[abs] = m

	slog.DebugContext(ctx, "module loaded", "module", m.name, "path", abs, "functions", m.names)
	return m, nil
}

// Resolve searches the configured directories for a module file named name.
func (l *Loader) Resolve(ctx context.Context, name string) (ports.Module, error) {
	for _, dir := range l.cfg.searchPath {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return l.Load(ctx, candidate)
		}
	}
	return nil, fmt.Errorf("%w: %s (search path: %s)", errors.ErrModuleNotFound, name, strings.Join(l.cfg.searchPath, string(os.PathListSeparator)))
}

// Close releases the runtime and every module it instantiated.
func (l *Loader) Close(ctx context.Context) error {
	l.mu.Lock()
	l.modules = make(map[string]*Module)
	l.mu.Unlock()
	return l.runtime.Close(ctx)
}

func (l *Loader) instantiate(ctx context.Context, name string, wasmBytes []byte) (*Module, error) {
	compiled, err := l.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module %s: %w", name, err)
	}

	// Anonymous instances, so two files with the same name can coexist.
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions("_initialize")
	mod, err := l.runtime.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate module %s: %w", name, err)
	}

	return newModule(name, mod, compiled.ExportedFunctions()), nil
}
