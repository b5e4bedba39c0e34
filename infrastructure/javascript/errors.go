package javascript

import (
	"github.com/dop251/goja"

	"github.com/reglet-dev/scripthost/domain/errors"
)

// scriptError keeps the script's own message. Error objects contribute their
// name and message; other thrown values their string form.
func scriptError(ex *goja.Exception) *errors.ScriptError {
	se := &errors.ScriptError{
		Err:     ex,
		Message: ex.Error(),
		Stack:   ex.String(),
	}

	switch v := ex.Value().(type) {
	case *goja.Object:
		if m := v.Get("message"); m != nil && !goja.IsUndefined(m) {
			se.Message = m.String()
		}
		if n := v.Get("name"); n != nil && !goja.IsUndefined(n) {
			se.Name = n.String()
		}
	case nil:
	default:
		se.Message = v.String()
	}
	return se
}
