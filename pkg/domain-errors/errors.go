// Package domainerrors carries coded errors across service boundaries.
//
// Every error returned by a service is either a *Error or wraps one. The code is
// the stable discriminator clients switch on; the message is for humans.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is the stable, machine-readable discriminator of a domain error.
type Code string

// Lifecycle taxonomy. Every failed operation reports exactly one of these.
const (
	// CodeState: the operation is illegal in the current lifecycle state.
	CodeState Code = "state_error"
	// CodeValidation: a parameter is outside its configured bound.
	CodeValidation Code = "validation_error"
	// CodeUnauthorized: the caller lacks the required role or certificate.
	CodeUnauthorized Code = "authorization_error"
	// CodeArithmetic: overflow, underflow or division by zero.
	CodeArithmetic Code = "arithmetic_error"
	// CodeExternalCall: a collaborator failed or answered unexpectedly.
	CodeExternalCall Code = "external_call_error"
	// CodeTiming: a deadline, cooldown, timelock or window is not satisfied yet.
	CodeTiming Code = "timing_error"
)

// Infrastructure codes.
const (
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so callers can write
// errors.Is(err, dErrors.New(dErrors.CodeTiming, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost domain code in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// MessageOf returns the human-readable message of the outermost domain error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// Is and As re-export the standard helpers so callers need one import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
