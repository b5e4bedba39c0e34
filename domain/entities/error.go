package entities

import "fmt"

// ErrorDetail is the structured form of a host error, suitable for crossing
// an interop boundary (CLI output, JSON, native callers).
// Types: "compile", "bind", "not_initialized", "script", "host_invocation",
// "lookup", "coercion", "dependency", "validation", "internal".
type ErrorDetail struct {
	// Wrapped contains the underlying cause, if it is itself structured.
	Wrapped *ErrorDetail `json:"wrapped,omitempty"`

	// Details contains additional error context.
	Details map[string]any `json:"details,omitempty"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`

	// Stack holds the script stack trace for script errors.
	Stack string `json:"stack,omitempty"`

	// Status is the numeric status reported to native callers.
	Status int32 `json:"status"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped.Error())
	}
	return msg
}

// NewErrorDetail creates a new ErrorDetail with the given type and message.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{
		Type:    errorType,
		Message: message,
	}
}

// WithDetails attaches details and returns the receiver.
func (e *ErrorDetail) WithDetails(details map[string]any) *ErrorDetail {
	e.Details = details
	return e
}

// WithCode attaches a code and returns the receiver.
func (e *ErrorDetail) WithCode(code string) *ErrorDetail {
	e.Code = code
	return e
}

// WithStatus attaches a numeric status and returns the receiver.
func (e *ErrorDetail) WithStatus(status int32) *ErrorDetail {
	e.Status = status
	return e
}
