package host

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reglet-dev/scripthost/application/bridge"
	"github.com/reglet-dev/scripthost/application/preprocess"
	"github.com/reglet-dev/scripthost/application/schema"
	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/domain/ports"
	"github.com/reglet-dev/scripthost/host/registry"
	"github.com/reglet-dev/scripthost/infrastructure/javascript"
	"github.com/reglet-dev/scripthost/infrastructure/wazero"
)

// Runner hosts one script for its whole lifetime.
type Runner struct {
	cfg      runnerConfig
	logger   *slog.Logger
	loader   *wazero.Loader
	pre      *preprocess.Preprocessor
	compiler ports.Compiler
	bridge   *bridge.Bridge

	src     entities.Source
	unit    ports.Unit
	inst    ports.Instance
	desc    entities.Descriptor
	entry   string
	loadErr error
	notes   entities.NotificationLog
}

// NewRunner creates a Runner with its WebAssembly runtime.
func NewRunner(ctx context.Context, opts ...Option) (*Runner, error) {
	cfg := defaultRunnerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	loader, err := wazero.NewLoader(ctx,
		wazero.WithSearchPath(cfg.modulePath...),
		wazero.WithOptimize(cfg.optimize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create module loader: %w", err)
	}

	var ambient registry.Chain
	if cfg.registry != nil {
		ambient = append(ambient, cfg.registry)
	}
	ambient = append(ambient, loader)

	r := &Runner{
		cfg:    cfg,
		logger: cfg.logger,
		loader: loader,
		pre:    preprocess.New(preprocess.WithExtension(cfg.extension)),
		compiler: javascript.NewCompiler(
			javascript.WithLogger(cfg.logger),
			javascript.WithStrict(cfg.strict),
			javascript.WithMaxCallStackSize(cfg.maxCallStack),
			javascript.WithExtension(cfg.extension),
			javascript.WithModuleLoader(loader),
			javascript.WithResolver(ambient),
		),
		bridge: bridge.New(bridge.WithLogger(cfg.logger)),
	}
	return r, nil
}

// LoadScript preprocesses, compiles and binds the script at path, using the
// method named entry as the entry point.
//
// Compile failures, an entry name declared by several types, a throwing
// constructor and unreadable files are returned. A missing entry method or a
// type that cannot be constructed leaves the runner uninitialized without an
// error; LoadError reports why.
func (r *Runner) LoadScript(ctx context.Context, path, entry string) error {
	if r.Initialized() {
		return errors.ErrAlreadyLoaded
	}
	r.discard(ctx)

	err := r.load(ctx, path, entry)
	switch {
	case err != nil:
		r.logger.ErrorContext(ctx, "script load failed", "path", path, "entry", entry, "error", err)
		r.observeLoad(err)
	case r.loadErr != nil:
		r.logger.WarnContext(ctx, "script not initialized", "path", path, "entry", entry, "error", r.loadErr)
		r.observeLoad(r.loadErr)
	default:
		r.logger.InfoContext(ctx, "script loaded",
			"path", r.src.Path,
			"entry", r.desc.Type+"."+entry,
			"fields", len(r.desc.Fields),
			"dependencies", len(r.src.Dependencies))
		r.observeLoad(nil)
	}
	return err
}

func (r *Runner) load(ctx context.Context, path, entry string) error {
	src, err := r.pre.ProcessFile(path)
	if err != nil {
		return err
	}
	r.src = src

	unit, err := r.compiler.Compile(ctx, src)
	if err != nil {
		return err
	}
	r.unit = unit

	ref, err := selectEntry(unit.Methods(), entry)
	if err != nil {
		bindErr := &errors.BindError{Entry: entry, Err: err}
		if stdErrors.Is(err, errors.ErrAmbiguousEntry) {
			return bindErr
		}
		r.loadErr = bindErr
		return nil
	}

	inst, err := unit.Instantiate(ctx, ref.Type, r.notify)
	if err != nil {
		var se *errors.ScriptError
		switch {
		case stdErrors.As(err, &se):
			return err
		case stdErrors.Is(err, errors.ErrNotConstructible):
			r.loadErr = &errors.BindError{Entry: entry, Type: ref.Type, Err: err}
			return nil
		default:
			return &errors.BindError{Entry: entry, Type: ref.Type, Err: err}
		}
	}

	r.inst = inst
	r.entry = entry
	r.desc = inst.Descriptor()
	r.desc.Entry = entry
	return nil
}

// selectEntry finds the single method named entry.
func selectEntry(methods []entities.MethodRef, entry string) (entities.MethodRef, error) {
	var found []entities.MethodRef
	for _, m := range methods {
		if m.Method == entry {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return entities.MethodRef{}, errors.ErrEntryNotFound
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, m := range found {
			names[i] = m.String()
		}
		return entities.MethodRef{}, fmt.Errorf("%w: %v", errors.ErrAmbiguousEntry, names)
	}
}

// discard releases the unit of a failed load so the runner can load again.
func (r *Runner) discard(ctx context.Context) {
	if r.unit != nil {
		_ = r.unit.Close(ctx)
	}
	r.src = entities.Source{}
	r.unit = nil
	r.loadErr = nil
}

// Initialized reports whether a script is loaded and its entry bound.
func (r *Runner) Initialized() bool {
	return r.inst != nil && r.entry != ""
}

// LoadError returns why the last LoadScript left the runner uninitialized.
func (r *Runner) LoadError() error {
	return r.loadErr
}

// Execute binds p into the entry instance, invokes the entry method and
// harvests the outputs into p. Notifications and p's results are cleared
// first.
func (r *Runner) Execute(ctx context.Context, p *Params) error {
	if !r.Initialized() {
		return &errors.NotInitializedError{}
	}
	if p == nil {
		p = NewParams()
	}

	r.notes.Reset()
	p.results.Reset()

	start := time.Now()
	err := r.execute(ctx, p)
	elapsed := time.Since(start)

	if r.cfg.observer != nil {
		r.cfg.observer.ObserveExecution(outcome(err), elapsed)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "execution failed", "entry", r.entry, "elapsed", elapsed, "error", err)
		return err
	}
	r.logger.DebugContext(ctx, "execution completed", "entry", r.entry, "elapsed", elapsed, "results", p.results.Len())
	return nil
}

func (r *Runner) execute(ctx context.Context, p *Params) error {
	if err := r.bridge.BindIn(r.inst, p.params); err != nil {
		return err
	}
	if err := r.inst.Invoke(ctx, r.entry); err != nil {
		return r.translate(err)
	}
	return r.bridge.BindOut(r.inst, p.results)
}

func (r *Runner) notify(msg string) {
	r.notes.Append(msg)
	r.logger.Debug("script notification", "msg", msg)
}

func (r *Runner) observeLoad(err error) {
	if r.cfg.observer != nil {
		r.cfg.observer.ObserveLoad(outcome(err))
	}
}

// Notifications returns the messages sent by the script during the last Execute.
func (r *Runner) Notifications() []string {
	return r.notes.Entries()
}

// Descriptor returns the parameter descriptor of the bound entry type.
func (r *Runner) Descriptor() (entities.Descriptor, error) {
	if !r.Initialized() {
		return entities.Descriptor{}, &errors.NotInitializedError{}
	}
	d := r.desc
	d.Fields = append([]entities.Field(nil), r.desc.Fields...)
	return d, nil
}

// Schema returns the JSON Schema of the entry type's parameters.
func (r *Runner) Schema() ([]byte, error) {
	d, err := r.Descriptor()
	if err != nil {
		return nil, err
	}
	return schema.GenerateSchema(d)
}

// ScriptDir returns the directory of the loaded script. Relative paths a
// script works with are resolved against it.
func (r *Runner) ScriptDir() string {
	return r.src.Dir
}

// Close releases the script and every dependency module.
func (r *Runner) Close(ctx context.Context) error {
	r.discard(ctx)
	r.inst = nil
	r.entry = ""
	return r.loader.Close(ctx)
}
