// Package validation checks caller-supplied inputs with go-playground/validator.
package validation

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/errors"
)

// validate is a package-level singleton; validator instances cache struct metadata.
var validate = validator.New()

// ValidateImage checks an image descriptor before it is handed to a script:
// positive geometry, a stride matching a known pixel format, and a buffer
// large enough to hold every row.
func ValidateImage(img *entities.Image) error {
	if img == nil {
		return &errors.ValidationError{Err: fmt.Errorf("image is nil")}
	}
	if err := validate.Struct(img); err != nil {
		return &errors.ValidationError{Field: img.Key, Err: describe(err)}
	}
	if _, err := img.Format(); err != nil {
		return &errors.ValidationError{Field: img.Key, Err: err}
	}
	if need := img.Stride * img.Height; len(img.Pix) < need {
		return &errors.ValidationError{
			Field: img.Key,
			Err:   fmt.Errorf("pixel buffer holds %d bytes, %d required", len(img.Pix), need),
		}
	}
	return nil
}

// ValidateStruct runs tag-based validation on any struct.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return &errors.ValidationError{Err: describe(err)}
	}
	return nil
}

// describe flattens validator field errors into one readable error.
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stdErrors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return stdErrors.New(strings.Join(msgs, "; "))
}
