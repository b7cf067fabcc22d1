package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed API call so callers can branch without parsing messages.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalid      Kind = "invalid"
	KindServer       Kind = "server"
	KindStatus       Kind = "status"
	KindDecode       Kind = "decode"
	KindValidation   Kind = "validation"
)

// Error is returned by every Client method that fails.
// Message is always safe to show to the operator.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Method  string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsUnauthorized reports whether the upstream session is gone.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// IsNotFound reports whether the resource does not exist upstream.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// Validation builds a client-side validation error.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Message extracts the operator-facing text of any error.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindInvalid
	case status >= 500:
		return KindServer
	default:
		return KindStatus
	}
}

// statusError turns a non-2xx response into an *Error. The body is read as
// JSON {message} or {error} first, then as plain text.
func statusError(method, path string, status int, body []byte) *Error {
	return &Error{
		Kind:    kindForStatus(status),
		Status:  status,
		Message: errorMessage(status, body),
		Method:  method,
		Path:    path,
	}
}

func errorMessage(status int, body []byte) string {
	var errorResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil {
		if errorResp.Message != "" {
			return errorResp.Message
		}
		if errorResp.Error != "" {
			return errorResp.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if text != "" && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		return text
	}
	return fmt.Sprintf("Server returned %d", status)
}
