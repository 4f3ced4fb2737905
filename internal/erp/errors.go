package erp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// StatusError is returned when the ERP answers with a non-200 status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s status %d: %s", e.Op, e.Code, e.Body)
}

// ErrorKind categorizes ERP failures for user-facing replies.
type ErrorKind string

const (
	ErrAuth        ErrorKind = "auth_error"   // 401/403, key or secret rejected
	ErrNotFound    ErrorKind = "not_found"    // 404, wrong base URL or doctype route
	ErrBadRequest  ErrorKind = "bad_request"  // 417, malformed filter expression
	ErrServer      ErrorKind = "server_error" // 5xx
	ErrUnavailable ErrorKind = "unavailable"  // transport failure or timeout
	ErrUnexpected  ErrorKind = "unexpected"
)

// Classify maps an error from Client into an ErrorKind.
func Classify(err error) ErrorKind {
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden:
			return ErrAuth
		case se.Code == http.StatusNotFound:
			return ErrNotFound
		case se.Code == http.StatusExpectationFailed:
			return ErrBadRequest
		case se.Code >= 500:
			return ErrServer
		default:
			return ErrUnexpected
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return ErrUnavailable
	}
	return ErrUnexpected
}

// UserMessage turns an ERP error into chat text. It never exposes raw bodies.
func UserMessage(err error) string {
	switch Classify(err) {
	case ErrAuth:
		return "🔒 Authentication failed while contacting the ERP. Please check the API key and secret."
	case ErrNotFound:
		return "❌ The ERP endpoint was not found. Please check the ERP URL/server configuration."
	case ErrBadRequest:
		return "⚠️ The ERP rejected the request format (invalid filter expression)."
	case ErrServer:
		return "⚠️ The ERP server reported an internal error. Please try again later."
	case ErrUnavailable:
		return "⏳ The ERP server is unreachable right now. Please try again later."
	}

	var se *StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("❌ The ERP request failed (status %d). Please try again later.", se.Code)
	}
	return "❌ Unexpected error while contacting the ERP. Please try again later."
}
