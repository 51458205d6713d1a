package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by the storefront packages.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")

	// ErrAuthRequired marks an action attempted without a session. It is
	// handled by redirecting to login rather than reported as a failure.
	ErrAuthRequired = errors.New("authentication required")

	// ErrTransport marks a request that never produced an HTTP response.
	ErrTransport = errors.New("transport failure")

	// ErrRejected marks a non-success response from the storefront API.
	ErrRejected = errors.New("rejected by server")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 validation error. Validation errors are raised
// before any request is issued.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// AuthRequired creates the error returned when an action needs a session.
func AuthRequired(message string) *AppError {
	return &AppError{
		Code:    "AUTH_REQUIRED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrAuthRequired,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Transport wraps a network-level failure.
func Transport(err error) *AppError {
	return &AppError{
		Code:    "TRANSPORT_ERROR",
		Message: "could not reach the storefront API",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrTransport, err),
	}
}

// Rejected creates an error for a non-success API response. message is the
// server-provided text and may be empty.
func Rejected(status int, code, message, reason string) *AppError {
	if code == "" {
		code = "REJECTED"
	}
	return &AppError{
		Code:    code,
		Message: message,
		Reason:  reason,
		Status:  status,
		Err:     rejectedCause(status),
	}
}

func rejectedCause(status int) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrRejected, ErrNotFound)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrRejected, ErrUnauthorized)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrRejected, ErrForbidden)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrRejected, ErrConflict)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w", ErrRejected, ErrInvalidInput)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %w", ErrRejected, ErrServiceUnavail)
	default:
		return ErrRejected
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Kind classifies an error for reporting.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthRequired
	KindValidation
	KindTransport
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindAuthRequired:
		return "authentication-required"
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindRejected:
		return "server-rejected"
	default:
		return "unknown"
	}
}

// KindOf returns the taxonomy bucket of err.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrAuthRequired):
		return KindAuthRequired
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrRejected):
		return KindRejected
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	default:
		return KindUnknown
	}
}

// UserMessage returns the text shown to the user for err. Structured errors
// use their own message when one is set; transport failures and plain errors
// fall back to the generic text.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fallback
	}
	if KindOf(err) == KindTransport || appErr.Message == "" {
		return fallback
	}
	return appErr.Message
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
