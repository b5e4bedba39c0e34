// Package schema renders script parameter descriptors as JSON Schema.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/reglet-dev/scripthost/domain/entities"
)

// Reflect creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func Reflect(v interface{}) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return reflector.Reflect(v)
}

// ForDescriptor builds the schema of a script's parameter object.
// Inputs are marked writeOnly, outputs readOnly, in/out fields neither.
func ForDescriptor(d entities.Descriptor) *jsonschema.Schema {
	root := &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                d.Type,
		Description:          fmt.Sprintf("Parameters of %s.%s", d.Type, d.Entry),
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}

	for _, f := range d.Fields {
		root.Properties.Set(f.Name, fieldSchema(f))
	}
	return root
}

// GenerateSchema renders the descriptor's schema as indented JSON.
func GenerateSchema(d entities.Descriptor) ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(ForDescriptor(d), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return jsonBytes, nil
}

func fieldSchema(f entities.Field) *jsonschema.Schema {
	var s *jsonschema.Schema
	switch f.Kind {
	case entities.KindString:
		s = &jsonschema.Schema{Type: "string"}
	case entities.KindInt:
		s = &jsonschema.Schema{Type: "integer"}
	case entities.KindFloat:
		s = &jsonschema.Schema{Type: "number"}
	case entities.KindBool:
		s = &jsonschema.Schema{Type: "boolean"}
	case entities.KindImage:
		s = Reflect(&entities.ImageInfo{})
		s.Version = ""
	default:
		s = &jsonschema.Schema{}
	}

	s.Description = f.Description
	switch f.Direction {
	case entities.DirectionIn:
		s.WriteOnly = true
	case entities.DirectionOut:
		s.ReadOnly = true
	}
	return s
}
