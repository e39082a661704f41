// Package errors defines web typed application errors.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindUnavailable  Kind = "unavailable"
	KindUpstream     Kind = "upstream"
)

// Error is a typed web application failure.
type Error struct {
	Kind    Kind
	Key     string
	Message string
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a localization key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// LocalizationKey returns the structured localization key when available.
func LocalizationKey(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return strings.TrimSpace(appErr.Key)
	}
	var invalid *queries.InvalidFeedbackError
	if stderrors.As(err, &invalid) {
		return invalid.Key
	}
	return ""
}

// HTTPStatus maps an error to an HTTP status code.
//
// Backend client errors (4xx) pass through so callers see the same status
// the backend returned; any other backend failure is a bad gateway.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return kindStatus(appErr.Kind)
	}
	var invalid *queries.InvalidFeedbackError
	if stderrors.As(err, &invalid) {
		return http.StatusBadRequest
	}
	if stderrors.Is(err, queries.ErrNoSession) {
		return http.StatusBadGateway
	}
	if remoteErr, ok := backend.AsError(err); ok {
		return backendStatus(remoteErr)
	}
	return http.StatusInternalServerError
}

func kindStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func backendStatus(err *backend.Error) int {
	switch {
	case err.NotFound():
		return http.StatusNotFound
	case err.Code == backend.CodeUnavailable:
		return http.StatusServiceUnavailable
	case err.Status >= 400 && err.Status < 500:
		return err.Status
	default:
		return http.StatusBadGateway
	}
}

// PublicMessage returns a message safe to show the user. Internal failures
// collapse to a generic message.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	if remoteErr, ok := backend.AsError(err); ok && remoteErr.Message != "" {
		return remoteErr.Message
	}
	return err.Error()
}
