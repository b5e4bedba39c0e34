package javascript

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/mitchellh/mapstructure"

	"github.com/reglet-dev/scripthost/domain/entities"
)

// declaredParameters is the static member a type may use to declare its fields.
const declaredParameters = "parameters"

type fieldSpec struct {
	Name        string `mapstructure:"name"`
	Direction   string `mapstructure:"direction"`
	Type        string `mapstructure:"type"`
	Description string `mapstructure:"description"`
}

// descriptor builds the parameter schema of t, once per load.
func (u *unit) descriptor(t *scriptType, obj *goja.Object) (entities.Descriptor, error) {
	d := entities.Descriptor{Type: t.name}

	declared, err := u.get(t.ctor, declaredParameters)
	if err != nil {
		return d, u.fault(err)
	}
	if declared != nil && !goja.IsUndefined(declared) && !goja.IsNull(declared) {
		fields, err := decodeFields(declared.Export())
		if err != nil {
			return d, fmt.Errorf("invalid parameters of %s: %w", t.name, err)
		}
		d.Fields = fields
		return d, nil
	}

	fields, err := u.deriveFields(obj)
	if err != nil {
		return d, u.fault(err)
	}
	d.Fields = fields
	return d, nil
}

func decodeFields(raw any) ([]entities.Field, error) {
	var specs []fieldSpec
	if err := mapstructure.Decode(raw, &specs); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(specs))
	fields := make([]entities.Field, 0, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("parameter %d has no name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate parameter %q", s.Name)
		}
		seen[s.Name] = true

		dir, err := entities.ParseDirection(s.Direction)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", s.Name, err)
		}
		kind, err := entities.ParseKind(s.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", s.Name, err)
		}
		fields = append(fields, entities.Field{
			Name:        s.Name,
			Direction:   dir,
			Kind:        kind,
			Description: s.Description,
		})
	}
	return fields, nil
}

// deriveFields walks the instance and its prototypes. The nearest definition
// of a name wins.
func (u *unit) deriveFields(obj *goja.Object) ([]entities.Field, error) {
	seen := make(map[string]bool)
	var fields []entities.Field

	for _, cur := range u.chain(obj) {
		names, err := u.ownNames(cur)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			if name == "constructor" || strings.HasPrefix(name, "_") || strings.EqualFold(name, notifySlot) {
				continue
			}

			p, err := u.describe(cur, name)
			if err != nil {
				return nil, err
			}
			if f, ok := p.field(name); ok {
				fields = append(fields, f)
			}
		}
	}
	return fields, nil
}

func (p property) field(name string) (entities.Field, bool) {
	f := entities.Field{Name: name, Kind: entities.KindAny}
	switch {
	case !p.exists, p.callable:
		return f, false
	case p.accessor && p.setter:
		f.Direction = entities.DirectionIn
	case p.accessor && p.getter:
		f.Direction = entities.DirectionOut
	case p.accessor:
		return f, false
	case p.writable:
		f.Direction = entities.DirectionIn
		f.Kind = kindOf(p.value)
	default:
		f.Direction = entities.DirectionOut
		f.Kind = kindOf(p.value)
	}
	return f, true
}

// kindOf infers a field kind from its initial value. JavaScript has one
// number type, so an integral initial value still declares a float field.
func kindOf(v goja.Value) entities.Kind {
	if v == nil {
		return entities.KindAny
	}
	switch v.Export().(type) {
	case int64, float64:
		return entities.KindFloat
	case bool:
		return entities.KindBool
	case string:
		return entities.KindString
	default:
		return entities.KindAny
	}
}
