package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidCredentials covers every authentication failure the API reports:
// unknown email, wrong password, or a bad refresh token. Callers map it to 401
// without distinguishing the cause.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrorKind classifies a failure so the HTTP layer can pick a status code
// without inspecting wrapped internals.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota
	KindNotFound
	KindForbidden
	KindProcessingFailure
	KindStorageFailure
	KindUpstreamFailure
	KindUpstreamUnavailable
)

// AppError carries a kind, a message safe to return to the client, and the
// wrapped cause for the log.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func NewAppError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err, unwrapping as needed. Unclassified errors
// are treated as processing failures.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindProcessingFailure
}

// MessageOf returns the client-safe message of err. Unclassified errors get a
// generic message so internals never leak to the wire.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

func HTTPStatusOf(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindProcessingFailure:
		return http.StatusUnprocessableEntity
	case KindStorageFailure:
		return http.StatusInternalServerError
	case KindUpstreamFailure:
		return http.StatusBadGateway
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
