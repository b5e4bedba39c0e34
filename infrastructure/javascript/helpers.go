package javascript

import (
	"fmt"

	"github.com/dop251/goja"
)

// Property reflection and access go through these functions. Anything a
// getter or setter throws is returned as an error, never panicked.
const helperSource = `(function (gopd, names, objectProto) {
	"use strict";
	return {
		objectProto: objectProto,
		names: function (o) { return names(o); },
		describe: function (o, k) {
			var d = gopd(o, k);
			if (d === undefined) {
				return undefined;
			}
			return {
				accessor: "get" in d || "set" in d,
				getter: typeof d.get === "function",
				setter: typeof d.set === "function",
				writable: d.writable === true,
				callable: typeof d.value === "function",
				value: d.value
			};
		},
		get: function (o, k) { return o[k]; },
		set: function (o, k, v) { o[k] = v; },
		text: function (v) { return v === undefined || v === null ? "" : String(v); },
		image: function (buf, key, width, height, stride, format) {
			return {
				key: key,
				width: width,
				height: height,
				stride: stride,
				format: format,
				data: buf,
				pixels: new Uint8Array(buf)
			};
		}
	};
})(Object.getOwnPropertyDescriptor, Object.getOwnPropertyNames, Object.prototype)`

type helpers struct {
	objectProto *goja.Object
	names       goja.Callable
	describe    goja.Callable
	get         goja.Callable
	set         goja.Callable
	text        goja.Callable
	image       goja.Callable
}

func newHelpers(rt *goja.Runtime) (*helpers, error) {
	v, err := rt.RunString(helperSource)
	if err != nil {
		return nil, err
	}
	obj := v.ToObject(rt)

	h := &helpers{}
	proto, ok := obj.Get("objectProto").(*goja.Object)
	if !ok {
		return nil, fmt.Errorf("object prototype is not an object")
	}
	h.objectProto = proto

	for name, dst := range map[string]*goja.Callable{
		"names":    &h.names,
		"describe": &h.describe,
		"get":      &h.get,
		"set":      &h.set,
		"text":     &h.text,
		"image":    &h.image,
	} {
		fn, ok := goja.AssertFunction(obj.Get(name))
		if !ok {
			return nil, fmt.Errorf("helper %s is not a function", name)
		}
		*dst = fn
	}
	return h, nil
}

// property is the normalized shape of a property descriptor.
type property struct {
	exists   bool
	accessor bool
	getter   bool
	setter   bool
	writable bool
	callable bool
	value    goja.Value
}

func (u *unit) describe(obj *goja.Object, name string) (property, error) {
	res, err := u.helpers.describe(goja.Undefined(), obj, u.rt.ToValue(name))
	if err != nil {
		return property{}, err
	}
	d, ok := res.(*goja.Object)
	if !ok {
		return property{}, nil
	}
	return property{
		exists:   true,
		accessor: d.Get("accessor").ToBoolean(),
		getter:   d.Get("getter").ToBoolean(),
		setter:   d.Get("setter").ToBoolean(),
		writable: d.Get("writable").ToBoolean(),
		callable: d.Get("callable").ToBoolean(),
		value:    d.Get("value"),
	}, nil
}

func (u *unit) ownNames(obj *goja.Object) ([]string, error) {
	res, err := u.helpers.names(goja.Undefined(), obj)
	if err != nil {
		return nil, err
	}
	raw, _ := res.Export().([]any)
	names := make([]string, 0, len(raw))
	for _, n := range raw {
		if s, ok := n.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

// chain returns obj and its prototypes up to, not including, Object.prototype.
func (u *unit) chain(obj *goja.Object) []*goja.Object {
	var out []*goja.Object
	for cur := obj; cur != nil && !cur.SameAs(u.helpers.objectProto); cur = cur.Prototype() {
		out = append(out, cur)
	}
	return out
}

func (u *unit) get(obj *goja.Object, name string) (goja.Value, error) {
	return u.helpers.get(goja.Undefined(), obj, u.rt.ToValue(name))
}

func (u *unit) set(obj *goja.Object, name string, v goja.Value) error {
	_, err := u.helpers.set(goja.Undefined(), obj, u.rt.ToValue(name), v)
	return err
}

func (u *unit) text(v goja.Value) (string, error) {
	res, err := u.helpers.text(goja.Undefined(), v)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}
