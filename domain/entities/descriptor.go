package entities

import "fmt"

// Direction tells whether a field is bound before or harvested after execution.
type Direction string

const (
	// DirectionIn marks a writable input field.
	DirectionIn Direction = "in"

	// DirectionOut marks a read-only output field.
	DirectionOut Direction = "out"

	// DirectionInOut marks a field that is both bound and harvested.
	DirectionInOut Direction = "inout"
)

// ParseDirection converts a textual direction. An empty string means "in".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", DirectionIn:
		return DirectionIn, nil
	case DirectionOut, DirectionInOut:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown parameter direction %q", s)
	}
}

// Writable reports whether input values may be bound to the field.
func (d Direction) Writable() bool {
	return d == DirectionIn || d == DirectionInOut
}

// Readable reports whether the field is harvested into the result bag.
func (d Direction) Readable() bool {
	return d == DirectionOut || d == DirectionInOut
}

// Kind is the declared value type of a field.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindImage  Kind = "image"
	// KindAny accepts text and images without coercion.
	KindAny Kind = "any"
)

// ParseKind converts a textual kind. An empty string means "any".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "":
		return KindAny, nil
	case KindString, KindInt, KindFloat, KindBool, KindImage, KindAny:
		return Kind(s), nil
	case "integer":
		return KindInt, nil
	case "number":
		return KindFloat, nil
	case "boolean":
		return KindBool, nil
	default:
		return "", fmt.Errorf("unknown parameter kind %q", s)
	}
}

// Field describes one bindable member of the entry type.
type Field struct {
	Name        string    `json:"name"`
	Direction   Direction `json:"direction"`
	Kind        Kind      `json:"kind"`
	Description string    `json:"description,omitempty"`
}

// Descriptor is the parameter schema of a loaded script, built once at load time.
type Descriptor struct {
	// Type is the name of the entry type.
	Type string `json:"type"`

	// Entry is the name of the entry method.
	Entry string `json:"entry"`

	// Fields lists the bindable members in declaration order.
	Fields []Field `json:"fields"`
}

// Field looks a field up by exact name.
func (d Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Inputs returns the writable fields.
func (d Descriptor) Inputs() []Field {
	var out []Field
	for _, f := range d.Fields {
		if f.Direction.Writable() {
			out = append(out, f)
		}
	}
	return out
}

// Outputs returns the fields harvested after execution.
func (d Descriptor) Outputs() []Field {
	var out []Field
	for _, f := range d.Fields {
		if f.Direction.Readable() {
			out = append(out, f)
		}
	}
	return out
}

// MethodRef names a method and the type declaring it.
type MethodRef struct {
	Type   string
	Method string
}

func (m MethodRef) String() string {
	return m.Type + "." + m.Method
}
