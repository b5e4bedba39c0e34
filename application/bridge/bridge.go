// Package bridge maps parameter bags onto a script instance and harvests its
// outputs. All lookups go through the instance's descriptor: input names
// that match no writable field are ignored, and exactly the output fields
// are harvested.
package bridge

import (
	"fmt"
	"log/slog"

	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/domain/ports"
)

// Bridge binds parameters in and results out.
type Bridge struct {
	logger *slog.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for skipped bindings.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = l
	}
}

// New creates a Bridge.
func New(opts ...Option) *Bridge {
	b := &Bridge{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BindIn assigns every matching parameter to the instance.
// Scalar values are coerced to the field kind; images are assigned as-is.
func (b *Bridge) BindIn(inst ports.Instance, params *entities.Parameters) error {
	desc := inst.Descriptor()

	for _, key := range params.ValueKeys() {
		field, ok := writable(desc, key)
		if !ok {
			b.logger.Debug("ignoring unbound parameter", "name", key)
			continue
		}
		raw, _ := params.Value(key)
		value, err := Coerce(field, raw)
		if err != nil {
			return err
		}
		if err := inst.Set(field, value); err != nil {
			return fmt.Errorf("failed to set parameter %s: %w", key, err)
		}
	}

	for _, key := range params.ImageKeys() {
		field, ok := writable(desc, key)
		if !ok {
			b.logger.Debug("ignoring unbound image", "name", key)
			continue
		}
		if field.Kind != entities.KindImage && field.Kind != entities.KindAny {
			return &errors.CoercionError{
				Field: key,
				Kind:  field.Kind,
				Value: "<image>",
				Err:   fmt.Errorf("images can only be assigned to image fields"),
			}
		}
		img, _ := params.Image(key)
		if err := inst.Set(field, img); err != nil {
			return fmt.Errorf("failed to set image %s: %w", key, err)
		}
	}

	return nil
}

// BindOut copies the text form of every output field into results.
func (b *Bridge) BindOut(inst ports.Instance, results *entities.Results) error {
	for _, field := range inst.Descriptor().Outputs() {
		value, err := inst.Get(field)
		if err != nil {
			return fmt.Errorf("failed to read output %s: %w", field.Name, err)
		}
		results.Set(field.Name, value)
	}
	return nil
}

func writable(desc entities.Descriptor, name string) (entities.Field, bool) {
	field, ok := desc.Field(name)
	if !ok || !field.Direction.Writable() {
		return entities.Field{}, false
	}
	return field, true
}
