package model

import "fmt"

// Standard error codes.
const (
	ErrBadRequest         = "BAD_REQUEST"
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrNotFound           = "NOT_FOUND"
	ErrValidationError    = "VALIDATION_ERROR"
	ErrInvalidTransition  = "INVALID_TRANSITION"
	ErrMalformedResponse  = "MALFORMED_RESPONSE"
	ErrBackendError       = "BACKEND_ERROR"
	ErrBackendUnavailable = "BACKEND_UNAVAILABLE"
	ErrInternalError      = "INTERNAL_ERROR"
)

// ErrorEnvelope is the standard error response envelope returned by the
// console. It implements the error interface.
type ErrorEnvelope struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Field   *FieldError `json:"field,omitempty"`
}

// Error implements the error interface.
func (e *ErrorEnvelope) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError describes the single first-failing validation rule for a form
// field. Rules are evaluated in order, so the error shown is deterministic.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewBadRequestError returns a BAD_REQUEST error.
func NewBadRequestError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrBadRequest, Message: msg}
}

// NewUnauthorizedError returns an UNAUTHORIZED error.
func NewUnauthorizedError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrUnauthorized, Message: msg}
}

// NewNotFoundError returns a NOT_FOUND error.
func NewNotFoundError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrNotFound, Message: msg}
}

// NewValidationError wraps a field-level failure. It never reaches the
// network layer; handlers surface it inline on the form.
func NewValidationError(fe *FieldError) *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrValidationError,
		Message: fe.Message,
		Field:   fe,
	}
}

// NewInvalidTransitionError returns an INVALID_TRANSITION error. Used when a
// confirmation is requested with nothing pending or while another action is
// already awaiting confirmation.
func NewInvalidTransitionError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrInvalidTransition, Message: msg}
}

// NewMalformedResponseError returns a MALFORMED_RESPONSE error. The caller
// must treat the collection as empty and surface the message to the user.
func NewMalformedResponseError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrMalformedResponse, Message: msg}
}

// NewBackendError returns a BACKEND_ERROR for a non-2xx backend response.
func NewBackendError(status int, msg string) *ErrorEnvelope {
	if msg == "" {
		msg = fmt.Sprintf("The backend rejected the request (status %d)", status)
	}
	return &ErrorEnvelope{Code: ErrBackendError, Message: msg}
}

// NewBackendUnavailableError returns a BACKEND_UNAVAILABLE error for
// transport-level failures.
func NewBackendUnavailableError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrBackendUnavailable,
		Message: "The catalog service is temporarily unavailable",
	}
}

// NewInternalError returns an INTERNAL_ERROR.
func NewInternalError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrInternalError,
		Message: "An unexpected error occurred",
	}
}

// AsEnvelope converts any error into an *ErrorEnvelope, falling back to an
// INTERNAL_ERROR for unrecognized error values. Network and backend
// failures are converted at the controller boundary so nothing propagates
// as an unhandled fault.
func AsEnvelope(err error) *ErrorEnvelope {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*ErrorEnvelope); ok {
		return ee
	}
	if fe, ok := err.(*FieldError); ok {
		return NewValidationError(fe)
	}
	return NewInternalError()
}
