package ports

import "github.com/reglet-dev/scripthost/domain/entities"

// ParamsParser parses a parameter file into a parameter specification.
type ParamsParser interface {
	// Parse unmarshals raw bytes into a ParamSpec.
	Parse(data []byte) (*entities.ParamSpec, error)
}
