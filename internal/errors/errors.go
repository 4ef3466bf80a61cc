package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so callers can branch without string matching.
// The HTTP mapping happens only at the handler boundary via StatusCode.
type Kind int

const (
	Unknown Kind = iota
	Validation
	NotFound
	AlreadyExists
	Unauthorized
	StoreUnavailable
	InconsistentState
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case AlreadyExists:
		return "already_exists"
	case Unauthorized:
		return "unauthorized"
	case StoreUnavailable:
		return "store_unavailable"
	case InconsistentState:
		return "inconsistent_state"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err, unwrapping as needed.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }

func IsNotFound(err error) bool { return Is(err, NotFound) }

// StatusCode maps an error to the HTTP status written at the boundary.
// Unknown errors default to 500.
func StatusCode(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusForbidden
	case StoreUnavailable:
		return http.StatusServiceUnavailable
	case InconsistentState:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
