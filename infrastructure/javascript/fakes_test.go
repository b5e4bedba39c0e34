package javascript

import (
	"context"
	"fmt"
	"sort"

	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/domain/ports"
)

type fakeModule struct {
	name  string
	funcs map[string]ports.NativeFunc
}

func (m *fakeModule) Name() string { return m.name }

func (m *fakeModule) Functions() []string {
	names := make([]string, 0, len(m.funcs))
	for n := range m.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (m *fakeModule) Call(ctx context.Context, fn string, args ...any) (any, error) {
	f, ok := m.funcs[fn]
	if !ok {
		return nil, fmt.Errorf("no function %q", fn)
	}
	return f(ctx, args...)
}

// fakeResolver serves modules by file name and records every lookup.
type fakeResolver struct {
	modules map[string]ports.Module
	calls   []string
}

func (r *fakeResolver) Resolve(_ context.Context, name string) (ports.Module, error) {
	r.calls = append(r.calls, name)
	if m, ok := r.modules[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", errors.ErrModuleNotFound, name)
}

// fakeLoader serves modules by path.
type fakeLoader struct {
	modules map[string]ports.Module
	err     error
	calls   []string
}

func (l *fakeLoader) Load(_ context.Context, path string) (ports.Module, error) {
	l.calls = append(l.calls, path)
	if l.err != nil {
		return nil, l.err
	}
	if m, ok := l.modules[path]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("no module at %s", path)
}
