package javascript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"

	"github.com/reglet-dev/scripthost/application/preprocess"
	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/domain/ports"
)

// moduleSet finds the dependency modules of one unit.
type moduleSet struct {
	dir      string
	ext      string
	loader   ports.ModuleLoader
	resolver ports.ModuleResolver
	loaded   map[string]ports.Module
}

func newModuleSet(dir string, cfg compilerConfig) *moduleSet {
	return &moduleSet{
		dir:      dir,
		ext:      cfg.extension,
		loader:   cfg.loader,
		resolver: cfg.resolver,
		loaded:   make(map[string]ports.Module),
	}
}

func (s *moduleSet) add(file string, m ports.Module) {
	s.loaded[file] = m
}

// resolve looks file up among the declared modules, then in the script
// directory, then through the ambient resolver.
func (s *moduleSet) resolve(ctx context.Context, file string) (ports.Module, error) {
	if m, ok := s.loaded[file]; ok {
		return m, nil
	}

	local := filepath.Join(s.dir, file)
	if info, err := os.Stat(local); err == nil && !info.IsDir() && s.loader != nil {
		m, err := s.loader.Load(ctx, local)
		if err != nil {
			return nil, &errors.DependencyError{Err: err, Name: file, Path: local}
		}
		s.loaded[file] = m
		return m, nil
	}

	if s.resolver == nil {
		return nil, &errors.DependencyError{Err: errors.ErrModuleNotFound, Name: file}
	}
	m, err := s.resolver.Resolve(ctx, file)
	if err != nil {
		return nil, &errors.DependencyError{Err: err, Name: file}
	}
	s.loaded[file] = m
	return m, nil
}

// require is the script's require(name) global.
func (u *unit) require(call goja.FunctionCall) goja.Value {
	obj, err := u.facade(call.Argument(0).String())
	if err != nil {
		panic(u.rt.NewGoError(err))
	}
	return obj
}

func (u *unit) facade(name string) (*goja.Object, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, &errors.DependencyError{Err: fmt.Errorf("invalid module name"), Name: name}
	}
	file := preprocess.ModuleFile(name, u.modules.ext)
	if obj, ok := u.facades[file]; ok {
		return obj, nil
	}

	m, err := u.modules.resolve(u.callCtx, file)
	if err != nil {
		return nil, err
	}

	obj := u.rt.NewObject()
	for _, fn := range m.Functions() {
		if err := obj.Set(fn, u.nativeFunc(m, fn)); err != nil {
			return nil, err
		}
	}
	u.facades[file] = obj
	return obj, nil
}

func (u *unit) nativeFunc(m ports.Module, fn string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args := make([]any, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = u.exportArg(a)
		}
		res, err := m.Call(u.callCtx, fn, args...)
		if err != nil {
			panic(u.rt.NewGoError(fmt.Errorf("%s.%s: %w", m.Name(), fn, err)))
		}
		return u.rt.ToValue(res)
	}
}
