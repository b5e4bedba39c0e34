// Package errors provides the domain error types of the script host.
// All error types support error unwrapping via errors.As() and errors.Is(),
// and carry a numeric status for callers on the far side of an interop boundary.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/scripthost/domain/entities"
)

// Numeric statuses reported at the interop boundary. The values follow the
// HRESULTs that native COM callers already handle.
const (
	StatusOK               int32 = 0
	StatusFailure          int32 = -2147467259 // 0x80004005
	StatusException        int32 = -2146233088 // 0x80131500
	StatusInvalidArgument  int32 = -2146233086 // 0x80131502
	StatusNotInitialized   int32 = -2146233079 // 0x80131509
	StatusMissingMethod    int32 = -2146233069 // 0x80131513
	StatusFormat           int32 = -2146233033 // 0x80131537
	StatusKeyNotFound      int32 = -2146232969 // 0x80131577
	StatusTargetInvocation int32 = -2146232828 // 0x80131604
	StatusAmbiguousMatch   int32 = -2147475171 // 0x8000211D
	StatusFileNotFound     int32 = -2147024894 // 0x80070002
)

// Sentinel causes. Match them with errors.Is.
var (
	// ErrAlreadyLoaded is returned when a runner is asked to load a second script.
	ErrAlreadyLoaded = stdErrors.New("a script is already loaded")

	// ErrEntryNotFound means no method carries the requested entry name.
	ErrEntryNotFound = stdErrors.New("entry method not found")

	// ErrAmbiguousEntry means more than one type declares the entry name.
	ErrAmbiguousEntry = stdErrors.New("entry method name is not unique")

	// ErrNotConstructible means the entry type has no usable no-argument constructor.
	ErrNotConstructible = stdErrors.New("entry type has no default constructor")

	// ErrModuleNotFound means no resolver could locate a dependency module.
	ErrModuleNotFound = stdErrors.New("module not found")
)

// DetailedError is implemented by errors that convert themselves to an ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to the structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
		Status:  StatusFailure,
	}
}

// Status returns the numeric status for err. A nil error is StatusOK.
func Status(err error) int32 {
	if err == nil {
		return StatusOK
	}
	return ToErrorDetail(err).Status
}

// CompileError reports the first diagnostic produced while compiling a script
// or one of its local dependency modules.
type CompileError struct {
	Err     error
	Path    string
	Message string
	Line    int
	Column  int
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("compile %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("compile %s: %s", e.Path, e.Message)
	}
	return "compile: " + e.Message
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CompileError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("compile", e.Message).
		WithCode(fmt.Sprintf("%d:%d", e.Line, e.Column)).
		WithStatus(StatusException).
		WithDetails(map[string]any{"path": e.Path})
}

// BindError reports that no usable entry instance could be produced.
type BindError struct {
	Err   error
	Entry string
	Type  string
}

func (e *BindError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("bind entry %q on %s: %v", e.Entry, e.Type, e.Err)
	}
	return fmt.Sprintf("bind entry %q: %v", e.Entry, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *BindError) ToErrorDetail() *entities.ErrorDetail {
	status := StatusMissingMethod
	if stdErrors.Is(e.Err, ErrAmbiguousEntry) {
		status = StatusAmbiguousMatch
	}
	return &entities.ErrorDetail{Message: e.Error(), Type: "bind", Code: e.Entry, Status: status}
}

// NotInitializedError is returned by Execute before a script was bound.
type NotInitializedError struct{}

func (e *NotInitializedError) Error() string {
	return "Script not initialized!"
}

// ToErrorDetail implements DetailedError.
func (e *NotInitializedError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "not_initialized", Status: StatusNotInitialized}
}

// ScriptError is a failure raised from inside the script. Its message is the
// script's own, unaltered.
type ScriptError struct {
	Err     error
	Name    string
	Message string
	Stack   string
}

func (e *ScriptError) Error() string {
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ScriptError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Message,
		Type:    "script",
		Code:    e.Name,
		Stack:   e.Stack,
		Status:  StatusException,
	}
}

// HostInvocationError is a failure of the invocation mechanism rather than of
// the script logic. Message is the last script notification when one exists.
type HostInvocationError struct {
	Err     error
	Message string
	Status  int32
}

func (e *HostInvocationError) Error() string {
	return e.Message
}

func (e *HostInvocationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *HostInvocationError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Message, Type: "host_invocation", Status: e.Status}
	if e.Err != nil {
		detail.Details = map[string]any{"cause": e.Err.Error()}
	}
	return detail
}

// LookupError is returned when a result key was not produced.
type LookupError struct {
	Key string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("the given key '%s' was not present in the results", e.Key)
}

// ToErrorDetail implements DetailedError.
func (e *LookupError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "lookup", Code: e.Key, Status: StatusKeyNotFound}
}

// CoercionError reports an input value that cannot be converted to its field kind.
type CoercionError struct {
	Err   error
	Field string
	Kind  entities.Kind
	Value string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s for parameter %s: %v", e.Value, e.Kind, e.Field, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CoercionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "coercion", Code: e.Field, Status: StatusFormat}
}

// DependencyError reports a dependency module that could not be loaded.
type DependencyError struct {
	Err  error
	Name string
	Path string
}

func (e *DependencyError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load module %s (%s): %v", e.Name, e.Path, e.Err)
	}
	return fmt.Sprintf("load module %s: %v", e.Name, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *DependencyError) ToErrorDetail() *entities.ErrorDetail {
	status := StatusException
	if stdErrors.Is(e.Err, ErrModuleNotFound) {
		status = StatusFileNotFound
	}
	return &entities.ErrorDetail{Message: e.Error(), Type: "dependency", Code: e.Name, Status: status}
}

// ValidationError reports an invalid input such as a malformed image descriptor.
type ValidationError struct {
	Err   error
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ValidationError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: e.Field, Status: StatusInvalidArgument}
}
