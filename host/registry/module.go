package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/reglet-dev/scripthost/domain/ports"
)

// FuncModule is a Module backed by Go functions.
type FuncModule struct {
	name  string
	funcs map[string]ports.NativeFunc
	names []string
}

var _ ports.Module = (*FuncModule)(nil)

// NewFuncModule creates a module exposing funcs under name.
func NewFuncModule(name string, funcs map[string]ports.NativeFunc) *FuncModule {
	m := &FuncModule{name: name, funcs: make(map[string]ports.NativeFunc, len(funcs))}
	for fn, f := range funcs {
		m.funcs[fn] = f
		m.names = append(m.names, fn)
	}
	sort.Strings(m.names)
	return m
}

// Name returns the module name.
func (m *FuncModule) Name() string { return m.name }

// Functions returns the function names in sorted order.
func (m *FuncModule) Functions() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Call invokes fn with the call recorded in ctx for middleware.
func (m *FuncModule) Call(ctx context.Context, fn string, args ...any) (any, error) {
	f, ok := m.funcs[fn]
	if !ok {
		return nil, fmt.Errorf("module %s has no function %q", m.name, fn)
	}
	return f(withCall(ctx, Call{Module: m.name, Function: fn}), args...)
}
