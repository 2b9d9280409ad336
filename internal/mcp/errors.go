package mcp

import (
	"errors"
	"fmt"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/repository"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	Fields       map[string]string `json:"fields,omitempty"`
	RecoveryHint string            `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps client errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &APIError{Code: "NOT_FOUND", Message: "log not found", RecoveryHint: "List logs to find a valid id"}
	}

	msg := apierror.UserMessage(err)
	var fields map[string]string
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		fields = apiErr.Fields
	}

	switch apierror.KindOf(err) {
	case apierror.KindAuthExpired:
		return &APIError{Code: "AUTH_EXPIRED", Message: msg, RecoveryHint: "Run `ecopulse login` and retry"}
	case apierror.KindValidation:
		return &APIError{Code: "VALIDATION", Message: msg, Fields: fields, RecoveryHint: "Fix the listed fields"}
	case apierror.KindDomainConstraint:
		return &APIError{Code: "REJECTED", Message: msg}
	case apierror.KindServer:
		return &APIError{Code: "SERVER_ERROR", Message: msg, RecoveryHint: "Retry later"}
	case apierror.KindCanceled:
		return &APIError{Code: "CANCELED", Message: msg}
	default:
		return &APIError{Code: "UNREACHABLE", Message: msg, RecoveryHint: "Check the network connection and retry"}
	}
}
