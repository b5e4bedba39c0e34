package entities

import (
	"sort"
)

// Parameters is the input bag supplied for one execution.
// Keys are unique; setting a key twice keeps the last value.
type Parameters struct {
	values map[string]string
	images map[string]*Image
}

// NewParameters creates an empty parameter bag.
func NewParameters() *Parameters {
	return &Parameters{
		values: make(map[string]string),
		images: make(map[string]*Image),
	}
}

// SetValue stores a scalar string value.
func (p *Parameters) SetValue(key, value string) {
	p.values[key] = value
}

// SetImage stores an image under its key.
func (p *Parameters) SetImage(img *Image) {
	p.images[img.Key] = img
}

// Value returns a scalar value.
func (p *Parameters) Value(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Image returns an image value.
func (p *Parameters) Image(key string) (*Image, bool) {
	img, ok := p.images[key]
	return img, ok
}

// ValueKeys returns the scalar keys in sorted order.
func (p *Parameters) ValueKeys() []string {
	return sortedKeys(p.values)
}

// ImageKeys returns the image keys in sorted order.
func (p *Parameters) ImageKeys() []string {
	return sortedKeys(p.images)
}

// Len returns the number of entries in the bag.
func (p *Parameters) Len() int {
	return len(p.values) + len(p.images)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
