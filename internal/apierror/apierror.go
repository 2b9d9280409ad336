// Package apierror classifies failures of the remote API into a small
// taxonomy and turns error bodies into user-facing messages.
package apierror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a failure.
type Kind int

const (
	KindNone Kind = iota
	KindTransport
	KindAuthExpired
	KindValidation
	KindServer
	KindDomainConstraint
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport_failure"
	case KindAuthExpired:
		return "auth_expired"
	case KindValidation:
		return "validation_failure"
	case KindServer:
		return "server_error"
	case KindDomainConstraint:
		return "domain_constraint_violation"
	case KindCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// AuthExpiredMessage is the message of every AuthExpired error.
const AuthExpiredMessage = "Your session has expired. Please log in again."

// Error is a failure reported by the API or by client-side validation.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Fields maps JSON field names to messages for validation failures.
	Fields map[string]string
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrAuthExpired      = &Error{Kind: KindAuthExpired}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrServer           = &Error{Kind: KindServer}
	ErrDomainConstraint = &Error{Kind: KindDomainConstraint}
)

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Is matches sentinels of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == 0 && t.Message == "" && t.Fields == nil && t.Kind == e.Kind
}

// AuthExpired returns the error for a 401 response.
func AuthExpired() *Error {
	return &Error{Kind: KindAuthExpired, Status: http.StatusUnauthorized, Message: AuthExpiredMessage}
}

// Validation builds a client-side validation failure.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf classifies err. Errors that are neither *Error nor context errors
// are treated as transport failures, since the only other source of errors
// is the HTTP transport.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindTransport
}

// IsAuthExpired reports whether err forces re-authentication.
func IsAuthExpired(err error) bool {
	return KindOf(err) == KindAuthExpired
}

// Degradable reports whether a read may substitute cached or static data
// for err.
func Degradable(err error) bool {
	switch KindOf(err) {
	case KindTransport, KindServer:
		return true
	default:
		return false
	}
}

// Retryable reports whether repeating the request later may succeed: a
// transport failure, or a server error without a 4xx status.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindTransport:
		return true
	case KindServer:
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return apiErr.Status == 0 || apiErr.Status >= http.StatusInternalServerError
		}
		return true
	default:
		return false
	}
}

// UserMessage returns a message suitable for showing to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	switch KindOf(err) {
	case KindCanceled:
		return "The request was cancelled."
	default:
		return "Couldn't reach the EcoPulse server. Check your connection and try again."
	}
}
