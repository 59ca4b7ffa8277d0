package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by outbound adapters when a lookup matches nothing.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned by outbound adapters when a uniqueness rule is violated.
	ErrConflict = errors.New("resource conflict")
)

// Type groups errors by who is at fault.
type Type int

const (
	// TypeServer is a failure of the service or one of its collaborators.
	TypeServer Type = iota
	// TypeBusiness is a request that broke a domain rule.
	TypeBusiness
	// TypeValidation is a request with missing or malformed input.
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is the stable error kind exposed to transports.
type Code int

const (
	// CodeInternal means a storage or delivery dependency failed.
	CodeInternal Code = iota
	// CodeInvalidFormat means the payload could not be decoded.
	CodeInvalidFormat
	// CodeInvalidInput means one or more fields failed validation.
	CodeInvalidInput
	// CodeNotFound means no account matched the identity.
	CodeNotFound
	// CodeConflict means a unique field is already taken.
	CodeConflict
	// CodeUnauthorized means the credential (OTP or token) was rejected.
	CodeUnauthorized
)

func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	case CodeUnauthorized:
		return "ERROR_CODE_UNAUTHORIZED"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error carries a caller-safe message next to the wrapped cause.
//
// Error() exposes the cause for logs; Msg() is the only text a transport may
// send back to the caller.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Business rule violation"
	default:
		return "Internal error"
	}
}

// String renders every attribute, for debugging.
func (e *Error) String() string {
	return fmt.Sprintf("type=%s code=%s msg=%q cause=%v", e.errType, e.code, e.msg, e.err)
}

// Msg returns the caller-safe message.
func (e *Error) Msg() string { return e.msg }

// Type returns the error type.
func (e *Error) Type() Type { return e.errType }

// Code returns the error code.
func (e *Error) Code() Code { return e.code }

// Fields returns per-field validation messages, if any.
func (e *Error) Fields() map[string]string { return e.fields }

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the code to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.code
	}
	return CodeInternal
}

func newError(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer wraps a dependency failure behind a generic message.
func NewServer(err error) error {
	return newError(err, "Internal server error", TypeServer, CodeInternal)
}

// NewOperationFailed wraps a dependency failure behind a specific safe message.
func NewOperationFailed(err error, msg string) error {
	return newError(err, msg, TypeServer, CodeInternal)
}

// NewBusiness creates a domain rule error.
func NewBusiness(msg string, code Code) error {
	return newError(nil, msg, TypeBusiness, code)
}

// NewInvalidInput creates a validation error.
//
// With a non-nil err the cause is kept (the router reads field messages from
// it). Otherwise kv is read as field/message pairs.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return newError(err, "Validation error", TypeValidation, CodeInvalidInput)
	}

	if len(kv)%2 != 0 {
		return newError(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}

	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat creates an undecodable-payload error.
func NewInvalidFormat(msgs ...string) error {
	if len(msgs) == 0 {
		return newError(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}
	return newError(nil, msgs[0], TypeValidation, CodeInvalidFormat)
}
