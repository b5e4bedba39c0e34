package javascript

import (
	"github.com/dop251/goja"

	"github.com/reglet-dev/scripthost/domain/entities"
)

// toValue converts a host value for the script. Images and byte slices share
// memory with the caller.
func (u *unit) toValue(value any) (goja.Value, error) {
	switch v := value.(type) {
	case *entities.Image:
		return u.imageValue(v)
	case []byte:
		return u.rt.ToValue(u.rt.NewArrayBuffer(v)), nil
	default:
		return u.rt.ToValue(v), nil
	}
}

// imageValue exposes img as {key, width, height, stride, format, data, pixels}
// where data is an ArrayBuffer over img.Pix and pixels a Uint8Array view of it.
func (u *unit) imageValue(img *entities.Image) (goja.Value, error) {
	format, _ := img.Format()
	return u.helpers.image(goja.Undefined(),
		u.rt.ToValue(u.rt.NewArrayBuffer(img.Pix)),
		u.rt.ToValue(img.Key),
		u.rt.ToValue(img.Width),
		u.rt.ToValue(img.Height),
		u.rt.ToValue(img.Stride),
		u.rt.ToValue(string(format)),
	)
}

// exportArg converts a script value passed to a dependency module.
func (u *unit) exportArg(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}

	switch x := obj.Export().(type) {
	case goja.ArrayBuffer:
		return x.Bytes()
	case []byte:
		return x
	}
	if img, ok := exportImage(obj); ok {
		return img
	}
	return obj.Export()
}

func exportImage(obj *goja.Object) (*entities.Image, bool) {
	data := obj.Get("data")
	if data == nil {
		return nil, false
	}
	buf, ok := data.Export().(goja.ArrayBuffer)
	if !ok {
		return nil, false
	}

	img := &entities.Image{
		Pix:    buf.Bytes(),
		Width:  intProp(obj, "width"),
		Height: intProp(obj, "height"),
		Stride: intProp(obj, "stride"),
	}
	if k := obj.Get("key"); k != nil && !goja.IsUndefined(k) {
		img.Key = k.String()
	}
	return img, true
}

func intProp(obj *goja.Object, name string) int {
	v := obj.Get(name)
	if v == nil {
		return 0
	}
	return int(v.ToInteger())
}
