package ports

import "context"

// NativeFunc is a function exported by a dependency module.
// Arguments are float64, int64, bool, string, []byte or *entities.Image;
// byte buffers and images are passed by reference and may be modified.
type NativeFunc func(ctx context.Context, args ...any) (any, error)

// Module is a loaded dependency module a script can require.
type Module interface {
	// Name returns the module's file name.
	Name() string

	// Functions lists the exported function names in sorted order.
	Functions() []string

	// Call invokes an exported function.
	Call(ctx context.Context, fn string, args ...any) (any, error)
}

// ModuleResolver locates and loads dependency modules.
type ModuleResolver interface {
	// Resolve loads the module with the given file name. It returns an error
	// wrapping errors.ErrModuleNotFound when the module does not exist.
	Resolve(ctx context.Context, name string) (Module, error)
}

// ModuleLoader loads a module from an explicit path.
type ModuleLoader interface {
	Load(ctx context.Context, path string) (Module, error)
}
