package host

import (
	"github.com/reglet-dev/scripthost/application/validation"
	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/errors"
)

// Params carries the inputs of one execution and receives its outputs.
type Params struct {
	params  *entities.Parameters
	results *entities.Results
}

// NewParams creates an empty parameter set.
func NewParams() *Params {
	return &Params{
		params:  entities.NewParameters(),
		results: entities.NewResults(),
	}
}

// SetParam sets a textual input. It is converted to the field's kind at bind time.
func (p *Params) SetParam(key, value string) {
	p.params.SetValue(key, value)
}

// SetImage sets an image input. pix is aliased, not copied: the script may
// read and modify it in place during Execute.
func (p *Params) SetImage(key string, width, height, stride int, pix []byte) error {
	img := &entities.Image{Key: key, Width: width, Height: height, Stride: stride, Pix: pix}
	if err := validation.ValidateImage(img); err != nil {
		return err
	}
	p.params.SetImage(img)
	return nil
}

// Image returns the image set under key.
func (p *Params) Image(key string) (*entities.Image, bool) {
	return p.params.Image(key)
}

// GetResult returns the output produced under key by the last Execute.
func (p *Params) GetResult(key string) (string, error) {
	v, ok := p.results.Get(key)
	if !ok {
		return "", &errors.LookupError{Key: key}
	}
	return v, nil
}

// Results returns a copy of all outputs of the last Execute.
func (p *Params) Results() map[string]string {
	return p.results.Map()
}

// ImageKeys returns the keys of all images in sorted order.
func (p *Params) ImageKeys() []string {
	return p.params.ImageKeys()
}
