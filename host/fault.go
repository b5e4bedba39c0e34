package host

import (
	stdErrors "errors"

	"github.com/reglet-dev/scripthost/domain/errors"
)

// translate classifies an invocation failure. Script errors pass through
// unchanged; anything else failed in the mechanism and is reported with the
// last notification as its message, when the script sent one.
func (r *Runner) translate(err error) error {
	var se *errors.ScriptError
	if stdErrors.As(err, &se) {
		return err
	}

	msg := err.Error()
	if last, ok := r.notes.Last(); ok {
		msg = last
	}
	return &errors.HostInvocationError{
		Err:     err,
		Message: msg,
		Status:  errors.StatusTargetInvocation,
	}
}

// outcome names the result of an operation for observers.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return errors.ToErrorDetail(err).Type
}
