package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"":        KindAny,
		"int":     KindInt,
		"integer": KindInt,
		"float":   KindFloat,
		"number":  KindFloat,
		"bool":    KindBool,
		"boolean": KindBool,
		"string":  KindString,
		"image":   KindImage,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("bitmap")
	assert.EqualError(t, err, `unknown parameter kind "bitmap"`)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, DirectionIn, d)

	d, err = ParseDirection("inout")
	require.NoError(t, err)
	assert.True(t, d.Writable())
	assert.True(t, d.Readable())

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestDescriptor(t *testing.T) {
	d := Descriptor{
		Type:  "Script",
		Entry: "RunScript",
		Fields: []Field{
			{Name: "OutDir", Direction: DirectionIn, Kind: KindString},
			{Name: "FilterSize", Direction: DirectionIn, Kind: KindInt},
			{Name: "WorkImage", Direction: DirectionInOut, Kind: KindImage},
			{Name: "Elapsed", Direction: DirectionOut, Kind: KindFloat},
		},
	}

	f, ok := d.Field("FilterSize")
	require.True(t, ok)
	assert.Equal(t, KindInt, f.Kind)

	_, ok = d.Field("filtersize")
	assert.False(t, ok, "field lookup is case-sensitive")

	var inputs, outputs []string
	for _, f := range d.Inputs() {
		inputs = append(inputs, f.Name)
	}
	for _, f := range d.Outputs() {
		outputs = append(outputs, f.Name)
	}
	assert.Equal(t, []string{"OutDir", "FilterSize", "WorkImage"}, inputs)
	assert.Equal(t, []string{"WorkImage", "Elapsed"}, outputs)

	assert.Equal(t, "Script.RunScript", MethodRef{Type: "Script", Method: "RunScript"}.String())
}

func TestDependencyRef_Target(t *testing.T) {
	local := DependencyRef{Name: "median", File: "median.wasm", Path: "/s/median.wasm", Local: true}
	ambient := DependencyRef{Name: "imaging", File: "imaging.wasm"}

	assert.Equal(t, "/s/median.wasm", local.Target())
	assert.Equal(t, "imaging.wasm", ambient.Target())
}
