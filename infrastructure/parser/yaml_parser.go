// Package parser reads parameter files.
package parser

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/scripthost/config"
	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/ports"
)

// FormatVersion is the params file version this parser reads.
const FormatVersion = 1

// YamlParamsParser implements ParamsParser for YAML (and therefore JSON).
//
//	version: 1
//	entry: RunScript
//	values:
//	  FilterSize: 5
//	  Fail: false
//	images:
//	  WorkImage: lena.png
type YamlParamsParser struct{}

// NewYamlParamsParser creates a new YamlParamsParser.
func NewYamlParamsParser() ports.ParamsParser {
	return &YamlParamsParser{}
}

// Parse unmarshals YAML bytes into a ParamSpec. Scalar values keep their
// source text form; lists and maps are rejected.
func (p *YamlParamsParser) Parse(data []byte) (*entities.ParamSpec, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse params: %w", err)
	}

	for key := range doc {
		switch key {
		case "version", "entry", "values", "images":
		default:
			return nil, fmt.Errorf("unknown section %q (expected version, entry, values or images)", key)
		}
	}

	spec := &entities.ParamSpec{
		Values:  make(map[string]string),
		Images:  make(map[string]string),
		Entry:   config.OptionalString(doc, "entry", ""),
		Version: config.OptionalInt(doc, "version", FormatVersion),
	}
	if spec.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported params version %d (expected %d)", spec.Version, FormatVersion)
	}

	values := config.OptionalMap(doc, "values")
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case nil:
			spec.Values[key] = ""
		case map[string]any, []any:
			return nil, fmt.Errorf("value %s must be a scalar", key)
		default:
			spec.Values[key] = fmt.Sprint(v)
		}
	}

	images := config.OptionalMap(doc, "images")
	for _, key := range sortedKeys(images) {
		path, err := config.RequireString(images, key)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", key, err)
		}
		spec.Images[key] = path
	}

	return spec, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
