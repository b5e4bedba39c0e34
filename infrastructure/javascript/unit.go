package javascript

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/dop251/goja"

	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/domain/ports"
	"github.com/reglet-dev/scripthost/internal/hostctx"
)

// scriptType is a constructor found in the script.
type scriptType struct {
	name    string
	ctor    *goja.Object
	proto   *goja.Object
	methods []string
}

// unit is one compiled script with its own runtime.
type unit struct {
	rt      *goja.Runtime
	src     entities.Source
	helpers *helpers
	module  *goja.Object
	types   []*scriptType
	modules *moduleSet
	facades map[string]*goja.Object

	// callCtx is the context of the Go call currently running script code.
	callCtx context.Context
	logger  *slog.Logger
}

var _ ports.Unit = (*unit)(nil)

func newUnit(src entities.Source, cfg compilerConfig) (*unit, error) {
	rt := goja.New()
	rt.SetMaxCallStackSize(cfg.maxCallStack)

	h, err := newHelpers(rt)
	if err != nil {
		return nil, err
	}

	u := &unit{
		rt:      rt,
		src:     src,
		helpers: h,
		modules: newModuleSet(src.Dir, cfg),
		facades: make(map[string]*goja.Object),
		callCtx: context.Background(),
		logger:  cfg.logger,
	}

	exports := rt.NewObject()
	u.module = rt.NewObject()
	if err := u.module.Set("exports", exports); err != nil {
		return nil, err
	}

	globals := map[string]any{
		"require":    u.require,
		"module":     u.module,
		"exports":    exports,
		"__filename": src.Path,
		"__dirname":  src.Dir,
	}
	for name, v := range globals {
		if err := rt.Set(name, v); err != nil {
			return nil, fmt.Errorf("failed to set global %s: %w", name, err)
		}
	}
	return u, nil
}

// enter makes ctx the context of native module calls until the returned
// function is called.
func (u *unit) enter(ctx context.Context) func() {
	prev := u.callCtx
	u.callCtx = ctx
	return func() { u.callCtx = prev }
}

func (u *unit) run(ctx context.Context, program *goja.Program, names []string) error {
	defer u.enter(ctx)()

	if _, err := u.rt.RunProgram(program); err != nil {
		return u.fault(err)
	}

	for _, name := range names {
		v, err := u.rt.RunString(name)
		if err != nil {
			// Declared but unreadable, e.g. a binding left uninitialized.
			u.logger.DebugContext(ctx, "top-level declaration skipped", "name", name, "error", err)
			continue
		}
		if err := u.addType(name, v); err != nil {
			return err
		}
	}
	return u.discoverExports()
}

func (u *unit) discoverExports() error {
	exp, err := u.get(u.module, "exports")
	if err != nil {
		return u.fault(err)
	}
	obj, ok := exp.(*goja.Object)
	if !ok {
		return nil
	}

	if _, callable := goja.AssertFunction(obj); callable {
		name, err := u.get(obj, "name")
		if err != nil {
			return u.fault(err)
		}
		return u.addType(name.String(), obj)
	}

	keys, err := u.ownNames(obj)
	if err != nil {
		return u.fault(err)
	}
	for _, key := range keys {
		v, err := u.get(obj, key)
		if err != nil {
			return u.fault(err)
		}
		if err := u.addType(key, v); err != nil {
			return err
		}
	}
	return nil
}

// addType records v when it is a function with a prototype object. A
// constructor reachable under several names is recorded once, under the
// first.
func (u *unit) addType(name string, v goja.Value) error {
	obj, ok := v.(*goja.Object)
	if !ok || name == "" {
		return nil
	}
	if _, callable := goja.AssertFunction(obj); !callable {
		return nil
	}
	for _, t := range u.types {
		if t.ctor.SameAs(obj) {
			return nil
		}
	}

	pv, err := u.get(obj, "prototype")
	if err != nil {
		return u.fault(err)
	}
	proto, ok := pv.(*goja.Object)
	if !ok {
		return nil
	}

	t := &scriptType{name: name, ctor: obj, proto: proto}
	keys, err := u.ownNames(proto)
	if err != nil {
		return u.fault(err)
	}
	for _, key := range keys {
		if key == "constructor" {
			continue
		}
		p, err := u.describe(proto, key)
		if err != nil {
			return u.fault(err)
		}
		if p.callable {
			t.methods = append(t.methods, key)
		}
	}

	u.types = append(u.types, t)
	return nil
}

// Methods lists every method of every type, types in discovery order.
func (u *unit) Methods() []entities.MethodRef {
	var out []entities.MethodRef
	for _, t := range u.types {
		for _, m := range t.methods {
			out = append(out, entities.MethodRef{Type: t.name, Method: m})
		}
	}
	return out
}

func (u *unit) lookup(name string) *scriptType {
	for _, t := range u.types {
		if t.name == name {
			return t
		}
	}
	return nil
}

// Instantiate creates an instance with new Type() and wires notify into its
// notification slot.
func (u *unit) Instantiate(ctx context.Context, typeName string, notify entities.Notifier) (ports.Instance, error) {
	t := u.lookup(typeName)
	if t == nil {
		return nil, fmt.Errorf("type %s not found in %s", typeName, u.src.Path)
	}
	ctor, ok := goja.AssertConstructor(t.ctor)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrNotConstructible, t.name)
	}

	defer u.enter(hostctx.WithNotifier(ctx, notify))()

	obj, err := ctor(t.ctor)
	if err != nil {
		return nil, u.fault(err)
	}

	inst := &instance{unit: u, typ: t, obj: obj, notify: notify}
	if err := inst.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect notifications: %w", err)
	}

	desc, err := u.descriptor(t, obj)
	if err != nil {
		return nil, err
	}
	inst.desc = desc
	return inst, nil
}

// Close drops the unit's references. Dependency modules belong to the loader.
func (u *unit) Close(context.Context) error {
	u.types = nil
	u.facades = nil
	u.rt.Interrupt("unit closed")
	return nil
}

// fault converts an engine error. JavaScript exceptions become script errors;
// everything else is returned unchanged.
func (u *unit) fault(err error) error {
	var ex *goja.Exception
	if stdErrors.As(err, &ex) {
		return scriptError(ex)
	}
	return err
}
