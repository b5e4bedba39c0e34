package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/scripthost/domain/entities"
)

func TestCompileError(t *testing.T) {
	err := &CompileError{Path: "/s/script.js", Message: "Unexpected token", Line: 3, Column: 7}

	assert.Equal(t, "compile /s/script.js:3:7: Unexpected token", err.Error())

	detail := err.ToErrorDetail()
	assert.Equal(t, "compile", detail.Type)
	assert.Equal(t, "Unexpected token", detail.Message)
	assert.Equal(t, "3:7", detail.Code)
	assert.Equal(t, StatusException, detail.Status)
}

func TestCompileError_NoPosition(t *testing.T) {
	err := &CompileError{Path: "/s/lib.wasm", Message: "invalid magic number"}
	assert.Equal(t, "compile /s/lib.wasm: invalid magic number", err.Error())
}

func TestBindError(t *testing.T) {
	err := &BindError{Entry: "Run", Err: ErrEntryNotFound}

	assert.Equal(t, `bind entry "Run": entry method not found`, err.Error())
	assert.True(t, errors.Is(err, ErrEntryNotFound))
	assert.Equal(t, StatusMissingMethod, Status(err))

	ambiguous := &BindError{Entry: "Run", Err: fmt.Errorf("%w: A.Run, B.Run", ErrAmbiguousEntry)}
	assert.True(t, errors.Is(ambiguous, ErrAmbiguousEntry))
	assert.Equal(t, StatusAmbiguousMatch, Status(ambiguous))
}

func TestScriptError_PreservesMessage(t *testing.T) {
	err := &ScriptError{Name: "RangeError", Message: "filter size must be odd", Stack: "at run (script.js:4:5)"}

	assert.Equal(t, "filter size must be odd", err.Error())

	detail := ToErrorDetail(err)
	assert.Equal(t, "script", detail.Type)
	assert.Equal(t, "RangeError", detail.Code)
	assert.Equal(t, "at run (script.js:4:5)", detail.Stack)
}

func TestHostInvocationError(t *testing.T) {
	cause := fmt.Errorf("method Run is not callable")
	err := &HostInvocationError{Message: "Saving image to /tmp/1.bmp", Status: StatusTargetInvocation, Err: cause}

	assert.Equal(t, "Saving image to /tmp/1.bmp", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, StatusTargetInvocation, Status(err))

	detail := err.ToErrorDetail()
	assert.Equal(t, "method Run is not callable", detail.Details["cause"])
}

func TestLookupError(t *testing.T) {
	err := &LookupError{Key: "Elapsed"}
	assert.Equal(t, "the given key 'Elapsed' was not present in the results", err.Error())
	assert.Equal(t, StatusKeyNotFound, Status(err))
}

func TestCoercionError(t *testing.T) {
	base := fmt.Errorf("invalid syntax")
	err := &CoercionError{Field: "FilterSize", Kind: entities.KindInt, Value: "eleven", Err: base}

	assert.Equal(t, `cannot convert "eleven" to int for parameter FilterSize: invalid syntax`, err.Error())
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, StatusFormat, Status(err))
}

func TestDependencyError(t *testing.T) {
	err := &DependencyError{Name: "median.wasm", Err: ErrModuleNotFound}

	assert.Equal(t, "load module median.wasm: module not found", err.Error())
	assert.Equal(t, StatusFileNotFound, Status(err))

	broken := &DependencyError{Name: "median.wasm", Path: "/s/median.wasm", Err: fmt.Errorf("bad section")}
	assert.Equal(t, "load module median.wasm (/s/median.wasm): bad section", broken.Error())
	assert.Equal(t, StatusException, Status(broken))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "WorkImage", Err: fmt.Errorf("Image width/stride mismatch")}
	assert.Equal(t, "validation failed for 'WorkImage': Image width/stride mismatch", err.Error())
	assert.Equal(t, StatusInvalidArgument, Status(err))
}

func TestToErrorDetail(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToErrorDetail(nil))
		assert.Equal(t, StatusOK, Status(nil))
	})

	t.Run("generic error is internal", func(t *testing.T) {
		detail := ToErrorDetail(fmt.Errorf("boom"))
		require.NotNil(t, detail)
		assert.Equal(t, "internal", detail.Type)
		assert.Equal(t, StatusFailure, detail.Status)
	})

	t.Run("wrapped detailed error", func(t *testing.T) {
		wrapped := fmt.Errorf("execute: %w", &NotInitializedError{})
		detail := ToErrorDetail(wrapped)
		assert.Equal(t, "not_initialized", detail.Type)
		assert.Equal(t, StatusNotInitialized, detail.Status)
	})

	t.Run("existing detail is returned as-is", func(t *testing.T) {
		orig := entities.NewErrorDetail("script", "x").WithStatus(StatusException)
		assert.Same(t, orig, ToErrorDetail(orig))
	})
}
