package wazero

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero/api"

	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/ports"
)

// ABI exports that are not offered to scripts.
var reservedExports = map[string]bool{
	"allocate":    true,
	"deallocate":  true,
	"_initialize": true,
	"_start":      true,
}

// Module is an instantiated dependency module.
type Module struct {
	name  string
	path  string
	mod   api.Module
	defs  map[string]api.FunctionDefinition
	names []string
}

var _ ports.Module = (*Module)(nil)

func newModule(name string, mod api.Module, defs map[string]api.FunctionDefinition) *Module {
	m := &Module{name: name, mod: mod, defs: defs}
	for fn := range defs {
		if !reservedExports[fn] {
			m.names = append(m.names, fn)
		}
	}
	sort.Strings(m.names)
	return m
}

// Name returns the module file name.
func (m *Module) Name() string { return m.name }

// Path returns the absolute path the module was loaded from.
func (m *Module) Path() string { return m.path }

// Functions returns the callable exports in sorted order.
func (m *Module) Functions() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// pinned is a host buffer mirrored into guest memory for one call.
type pinned struct {
	host     []byte
	ptr      uint32
	copyBack bool
}

// Call invokes the exported function fn. Numbers and booleans fill one
// parameter each; strings, byte slices and images fill a (ptr, len) pair.
// Byte slices and images are copied back after a successful call. Guest
// buffers are freed on every path.
func (m *Module) Call(ctx context.Context, fn string, args ...any) (_ any, err error) {
	def, ok := m.defs[fn]
	f := m.mod.ExportedFunction(fn)
	if !ok || f == nil || reservedExports[fn] {
		return nil, fmt.Errorf("module %s has no function %q", m.name, fn)
	}

	params := def.ParamTypes()
	stack := make([]uint64, 0, len(params))
	var buffers []pinned
	defer func() {
		var errs []error
		for _, b := range buffers {
			if ferr := m.free(ctx, b.ptr, len(b.host)); ferr != nil {
				errs = append(errs, ferr)
			}
		}
		if err == nil {
			err = stdErrors.Join(errs...)
		}
	}()

	for i, arg := range args {
		var buf *pinned
		switch v := arg.(type) {
		case []byte:
			buf = &pinned{host: v, copyBack: true}
		case *entities.Image:
			buf = &pinned{host: v.Pix, copyBack: true}
		case string:
			buf = &pinned{host: []byte(v)}
		}

		if buf != nil {
			ptr, err := m.write(ctx, buf.host)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			buf.ptr = ptr
			buffers = append(buffers, *buf)
			stack = append(stack, api.EncodeU32(ptr), api.EncodeU32(uint32(len(buf.host)))) //nolint:gosec // G115: guest buffers are 32-bit
			continue
		}

		if len(stack) >= len(params) {
			return nil, fmt.Errorf("%s.%s takes %d parameters", m.name, fn, len(params))
		}
		enc, err := encode(params[len(stack)], arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		stack = append(stack, enc)
	}

	if len(stack) != len(params) {
		return nil, fmt.Errorf("%s.%s takes %d parameters, got %d", m.name, fn, len(params), len(stack))
	}

	results, err := f.Call(ctx, stack...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", m.name, fn, err)
	}

	for _, b := range buffers {
		if err := m.copyBack(b); err != nil {
			return nil, err
		}
	}

	if len(results) == 0 {
		return nil, nil
	}
	return decode(def.ResultTypes()[0], results[0]), nil
}

// write allocates len(data) bytes in the guest and copies data there.
func (m *Module) write(ctx context.Context, data []byte) (uint32, error) {
	allocate := m.mod.ExportedFunction("allocate")
	if allocate == nil {
		return 0, fmt.Errorf("module %s does not export 'allocate'", m.name)
	}

	res, err := allocate.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to call guest allocate: %w", err)
	}
	ptr := uint32(res[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit

	if !m.mod.Memory().Write(ptr, data) {
		_ = m.free(ctx, ptr, len(data))
		return 0, fmt.Errorf("failed to write %d bytes to guest memory at %d", len(data), ptr)
	}
	return ptr, nil
}

// copyBack mirrors a guest buffer into its host slice when required.
func (m *Module) copyBack(b pinned) error {
	if !b.copyBack {
		return nil
	}
	size := uint32(len(b.host)) //nolint:gosec // G115: guest buffers are 32-bit
	data, ok := m.mod.Memory().Read(b.ptr, size)
	if !ok {
		return fmt.Errorf("failed to read %d bytes from guest memory at %d", size, b.ptr)
	}
	copy(b.host, data)
	return nil
}

// free returns a buffer to the guest when it exports deallocate.
func (m *Module) free(ctx context.Context, ptr uint32, size int) error {
	dealloc := m.mod.ExportedFunction("deallocate")
	if dealloc == nil {
		return nil
	}
	if _, err := dealloc.Call(ctx, api.EncodeU32(ptr), api.EncodeU32(uint32(size))); err != nil { //nolint:gosec // G115: guest buffers are 32-bit
		return fmt.Errorf("failed to call guest deallocate: %w", err)
	}
	return nil
}
