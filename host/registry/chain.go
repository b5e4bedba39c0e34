package registry

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/domain/ports"
)

// Chain asks each resolver in turn. A resolver that reports
// errors.ErrModuleNotFound passes the name on; any other error stops the
// search.
type Chain []ports.ModuleResolver

var _ ports.ModuleResolver = Chain(nil)

// Resolve implements ports.ModuleResolver.
func (c Chain) Resolve(ctx context.Context, name string) (ports.Module, error) {
	for _, r := range c {
		if r == nil {
			continue
		}
		m, err := r.Resolve(ctx, name)
		if err == nil {
			return m, nil
		}
		if !stdErrors.Is(err, errors.ErrModuleNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", errors.ErrModuleNotFound, name)
}
