package javascript

import (
	"context"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/ports"
	"github.com/reglet-dev/scripthost/internal/hostctx"
)

// notifySlot is the member that receives the notification callback,
// matched case-insensitively.
const notifySlot = "Debug"

type instance struct {
	unit   *unit
	typ    *scriptType
	obj    *goja.Object
	desc   entities.Descriptor
	notify entities.Notifier
}

var _ ports.Instance = (*instance)(nil)

func (i *instance) Descriptor() entities.Descriptor {
	d := i.desc
	d.Fields = append([]entities.Field(nil), i.desc.Fields...)
	return d
}

func (i *instance) Set(field entities.Field, value any) error {
	v, err := i.unit.toValue(value)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", field.Name, err)
	}
	if err := i.unit.set(i.obj, field.Name, v); err != nil {
		return i.unit.fault(err)
	}
	return nil
}

func (i *instance) Get(field entities.Field) (string, error) {
	v, err := i.unit.get(i.obj, field.Name)
	if err != nil {
		return "", i.unit.fault(err)
	}
	s, err := i.unit.text(v)
	if err != nil {
		return "", i.unit.fault(err)
	}
	return s, nil
}

// Invoke calls method on the instance. The notifier travels in ctx to any
// dependency module the method calls.
func (i *instance) Invoke(ctx context.Context, method string) (err error) {
	defer i.unit.enter(hostctx.WithNotifier(ctx, i.notify))()

	v, err := i.unit.get(i.obj, method)
	if err != nil {
		return i.unit.fault(err)
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return fmt.Errorf("%s.%s is not a function", i.typ.name, method)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s.%s: %v", i.typ.name, method, r)
		}
	}()

	if _, err := fn(i.obj); err != nil {
		return i.unit.fault(err)
	}
	return nil
}

// connect assigns the notification callback to the instance's slot: an own
// writable data property or an inherited setter.
func (i *instance) connect() error {
	if i.notify == nil {
		return nil
	}
	name, ok, err := i.unit.findSlot(i.obj)
	if err != nil || !ok {
		return err
	}

	sink := func(call goja.FunctionCall) goja.Value {
		msg := ""
		if a := call.Argument(0); !goja.IsUndefined(a) && !goja.IsNull(a) {
			msg = a.String()
		}
		i.notify(msg)
		return goja.Undefined()
	}
	return i.unit.set(i.obj, name, i.unit.rt.ToValue(sink))
}

func (u *unit) findSlot(obj *goja.Object) (string, bool, error) {
	for depth, cur := range u.chain(obj) {
		names, err := u.ownNames(cur)
		if err != nil {
			return "", false, err
		}
		for _, name := range names {
			if !strings.EqualFold(name, notifySlot) {
				continue
			}
			p, err := u.describe(cur, name)
			if err != nil {
				return "", false, err
			}
			if p.setter || (depth == 0 && !p.accessor && p.writable) {
				return name, true, nil
			}
		}
	}
	return "", false, nil
}
