package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/domain/ports"
)

// Registry is an immutable collection of Go-native modules keyed by name.
// Lookups ignore a trailing file extension, so "imaging" answers
// require("imaging") and a resolver asking for "imaging.wasm".
type Registry struct {
	modules map[string]*FuncModule
	names   []string
}

var _ ports.ModuleResolver = (*Registry)(nil)

type registryBuilder struct {
	modules    map[string]map[string]ports.NativeFunc
	middleware []Middleware
	errors     []error
}

// Option is a functional option for configuring a Registry.
type Option func(*registryBuilder)

// New creates an immutable Registry. It returns an error if a module is
// registered twice or under an empty name.
//
// Example usage:
//
//	reg, err := registry.New(
//	    registry.WithMiddleware(registry.PanicRecoveryMiddleware()),
//	    registry.WithModule("imaging", map[string]ports.NativeFunc{
//	        "invert": invert,
//	    }),
//	)
func New(opts ...Option) (*Registry, error) {
	b := &registryBuilder{modules: make(map[string]map[string]ports.NativeFunc)}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	r := &Registry{modules: make(map[string]*FuncModule, len(b.modules))}
	for name, funcs := range b.modules {
		wrapped := make(map[string]ports.NativeFunc, len(funcs))
		for fn, f := range funcs {
			// Reverse order so the first middleware wraps outermost.
			for i := len(b.middleware) - 1; i >= 0; i-- {
				f = b.middleware[i](f)
			}
			wrapped[fn] = f
		}
		r.modules[name] = NewFuncModule(name, wrapped)
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// WithModule registers a module.
func WithModule(name string, funcs map[string]ports.NativeFunc) Option {
	return func(b *registryBuilder) {
		key := moduleKey(name)
		switch {
		case key == "":
			b.errors = append(b.errors, fmt.Errorf("module name cannot be empty"))
		case b.modules[key] != nil:
			b.errors = append(b.errors, fmt.Errorf("duplicate module name: %q", name))
		case len(funcs) == 0:
			b.errors = append(b.errors, fmt.Errorf("module %q has no functions", name))
		default:
			b.modules[key] = funcs
		}
	}
}

// WithMiddleware adds middleware applied to every module function.
func WithMiddleware(mw ...Middleware) Option {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

// Resolve returns the module registered under name.
func (r *Registry) Resolve(_ context.Context, name string) (ports.Module, error) {
	m, ok := r.modules[moduleKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not registered", errors.ErrModuleNotFound, name)
	}
	return m, nil
}

// Has reports whether a module is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.modules[moduleKey(name)]
	return ok
}

// Names returns the registered module names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func moduleKey(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
