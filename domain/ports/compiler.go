package ports

import (
	"context"

	"github.com/reglet-dev/scripthost/domain/entities"
)

// Compiler turns preprocessed source into a loaded, executable unit.
type Compiler interface {
	// Compile compiles src together with its dependency list. On failure it
	// returns a *errors.CompileError carrying the first diagnostic only.
	Compile(ctx context.Context, src entities.Source) (Unit, error)
}

// Unit is a compiled script.
type Unit interface {
	// Methods lists every method of every type in the unit, in declaration order.
	Methods() []entities.MethodRef

	// Instantiate constructs one instance of the named type with its
	// no-argument constructor and connects notify to the instance's
	// notification slot, if it declares one.
	Instantiate(ctx context.Context, typeName string, notify entities.Notifier) (Instance, error)

	// Close releases the unit and its dependency modules.
	Close(ctx context.Context) error
}

// Instance is a live object of the entry type.
type Instance interface {
	// Descriptor returns the parameter schema built at instantiation.
	Descriptor() entities.Descriptor

	// Set assigns value to a writable field. value is one of string, int64,
	// float64, bool or *entities.Image.
	Set(field entities.Field, value any) error

	// Get returns the text form of a field's current value.
	Get(field entities.Field) (string, error)

	// Invoke calls a no-argument method. A failure raised by the script is
	// returned as *errors.ScriptError; any other error is a failure of the
	// invocation mechanism itself.
	Invoke(ctx context.Context, method string) error
}
