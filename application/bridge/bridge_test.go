package bridge_test

import (
	"context"
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/scripthost/application/bridge"
	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/errors"
)

// fakeInstance records assignments and serves outputs from a map.
type fakeInstance struct {
	desc    entities.Descriptor
	set     map[string]any
	outputs map[string]string
	setErr  error
}

func newFakeInstance(fields ...entities.Field) *fakeInstance {
	return &fakeInstance{
		desc:    entities.Descriptor{Type: "Script", Entry: "Run", Fields: fields},
		set:     make(map[string]any),
		outputs: make(map[string]string),
	}
}

func (f *fakeInstance) Descriptor() entities.Descriptor { return f.desc }

func (f *fakeInstance) Set(field entities.Field, value any) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.set[field.Name] = value
	return nil
}

func (f *fakeInstance) Get(field entities.Field) (string, error) {
	v, ok := f.outputs[field.Name]
	if !ok {
		return "", fmt.Errorf("no value for %s", field.Name)
	}
	return v, nil
}

func (f *fakeInstance) Invoke(context.Context, string) error { return nil }

var scriptFields = []entities.Field{
	{Name: "OutDir", Direction: entities.DirectionIn, Kind: entities.KindString},
	{Name: "FilterSize", Direction: entities.DirectionIn, Kind: entities.KindInt},
	{Name: "Gain", Direction: entities.DirectionIn, Kind: entities.KindFloat},
	{Name: "Verbose", Direction: entities.DirectionIn, Kind: entities.KindBool},
	{Name: "WorkImage", Direction: entities.DirectionInOut, Kind: entities.KindImage},
	{Name: "Elapsed", Direction: entities.DirectionOut, Kind: entities.KindFloat},
}

func TestBindIn_CoercesToDeclaredKind(t *testing.T) {
	inst := newFakeInstance(scriptFields...)
	params := entities.NewParameters()
	params.SetValue("OutDir", "/tmp/out")
	params.SetValue("FilterSize", "11")
	params.SetValue("Gain", "1.5")
	params.SetValue("Verbose", "true")

	require.NoError(t, bridge.New().BindIn(inst, params))

	assert.Equal(t, "/tmp/out", inst.set["OutDir"])
	assert.Equal(t, int64(11), inst.set["FilterSize"])
	assert.Equal(t, 1.5, inst.set["Gain"])
	assert.Equal(t, true, inst.set["Verbose"])
}

func TestBindIn_IgnoresUnknownAndOutputNames(t *testing.T) {
	inst := newFakeInstance(scriptFields...)
	params := entities.NewParameters()
	params.SetValue("nonexistent", "x")
	params.SetValue("Elapsed", "42")
	params.SetValue("filtersize", "3")

	require.NoError(t, bridge.New().BindIn(inst, params))
	assert.Empty(t, inst.set)
}

func TestBindIn_AssignsImagesByReference(t *testing.T) {
	inst := newFakeInstance(scriptFields...)
	img := &entities.Image{Key: "WorkImage", Width: 1, Height: 1, Stride: 4, Pix: make([]byte, 4)}
	params := entities.NewParameters()
	params.SetImage(img)

	require.NoError(t, bridge.New().BindIn(inst, params))
	assert.Same(t, img, inst.set["WorkImage"])
}

func TestBindIn_ImageToScalarFieldFails(t *testing.T) {
	inst := newFakeInstance(scriptFields...)
	params := entities.NewParameters()
	params.SetImage(&entities.Image{Key: "FilterSize", Width: 1, Height: 1, Stride: 1, Pix: []byte{0}})

	err := bridge.New().BindIn(inst, params)

	var coercionErr *errors.CoercionError
	require.True(t, stdErrors.As(err, &coercionErr))
	assert.Equal(t, "FilterSize", coercionErr.Field)
}

func TestBindIn_InvalidText(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "int", key: "FilterSize", value: "eleven"},
		{name: "float", key: "Gain", value: "loud"},
		{name: "bool", key: "Verbose", value: "perhaps"},
		{name: "text to image", key: "WorkImage", value: "img.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := newFakeInstance(scriptFields...)
			params := entities.NewParameters()
			params.SetValue(tt.key, tt.value)

			err := bridge.New().BindIn(inst, params)

			var coercionErr *errors.CoercionError
			require.True(t, stdErrors.As(err, &coercionErr), "got %v", err)
			assert.Equal(t, tt.key, coercionErr.Field)
			assert.Equal(t, tt.value, coercionErr.Value)
			assert.Empty(t, inst.set)
		})
	}
}

func TestBindIn_SetFailure(t *testing.T) {
	inst := newFakeInstance(scriptFields...)
	inst.setErr = fmt.Errorf("setter threw")
	params := entities.NewParameters()
	params.SetValue("OutDir", "/tmp")

	err := bridge.New().BindIn(inst, params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set parameter OutDir")
}

func TestBindOut_HarvestsExactlyOutputs(t *testing.T) {
	inst := newFakeInstance(scriptFields...)
	inst.outputs["Elapsed"] = "0.25"
	inst.outputs["WorkImage"] = "[object Object]"
	inst.outputs["OutDir"] = "/never/harvested"

	results := entities.NewResults()
	require.NoError(t, bridge.New().BindOut(inst, results))

	assert.Equal(t, []string{"Elapsed", "WorkImage"}, results.Keys())
	v, _ := results.Get("Elapsed")
	assert.Equal(t, "0.25", v)
}

func TestBindOut_ReadFailure(t *testing.T) {
	inst := newFakeInstance(scriptFields...)
	err := bridge.New().BindOut(inst, entities.NewResults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read output")
}

func TestCoerce(t *testing.T) {
	field := entities.Field{Name: "FilterSize", Kind: entities.KindInt}
	v, err := bridge.Coerce(field, "11")
	require.NoError(t, err)
	assert.Equal(t, int64(11), v)

	v, err = bridge.Coerce(entities.Field{Name: "Any", Kind: entities.KindAny}, "raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", v)

	v, err = bridge.Coerce(entities.Field{Name: "Flag", Kind: entities.KindBool}, "")
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestCoerce_IntIsDecimal(t *testing.T) {
	field := entities.Field{Name: "FilterSize", Kind: entities.KindInt}

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "11", want: 11},
		{in: "011", want: 11},
		{in: "08", want: 8},
		{in: "-5", want: -5},
		{in: "0x1F", wantErr: true},
		{in: "1e3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := bridge.Coerce(field, tt.in)
			if tt.wantErr {
				var ce *errors.CoercionError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, "FilterSize", ce.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}
