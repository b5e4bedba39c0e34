package bridge

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/errors"
)

// Coerce converts the text form of an input to the field's declared kind.
// The result is a string, int64, float64 or bool.
func Coerce(field entities.Field, raw string) (any, error) {
	var (
		out any
		err error
	)
	switch field.Kind {
	case entities.KindInt:
		var v int64
		err = decode(raw, &v)
		out = v
	case entities.KindFloat:
		var v float64
		err = mapstructure.WeakDecode(raw, &v)
		out = v
	case entities.KindBool:
		var v bool
		err = mapstructure.WeakDecode(raw, &v)
		out = v
	case entities.KindString, entities.KindAny:
		out = raw
	default:
		err = fmt.Errorf("text cannot be assigned to a %s field", field.Kind)
	}
	if err != nil {
		return nil, &errors.CoercionError{Field: field.Name, Kind: field.Kind, Value: raw, Err: err}
	}
	return out, nil
}

// decode is a weak decode whose integer parsing is decimal only, so "011"
// is eleven and "0x1F" is rejected.
func decode(raw string, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decimalInt,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func decimalInt(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Int64 {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return data, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
