package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest maps HTTP 400 responses.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized maps HTTP 401 responses. The pipeline reacts globally
	// to this class; callers still receive it for their own error display.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden maps HTTP 403 responses.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound maps HTTP 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrServer maps HTTP 5xx responses.
	ErrServer = errors.New("server error")
	// ErrTimeout maps transport deadlines, including the client's fixed timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork maps connection-level failures where no response was received.
	ErrNetwork = errors.New("network error")
	// ErrBusiness maps envelope responses whose code is not the success sentinel.
	ErrBusiness = errors.New("business error")
	// ErrRequestFailed covers everything the taxonomy does not name.
	ErrRequestFailed = errors.New("request failed")
)

// APIError is the uniform error returned by the pipeline. It carries the
// HTTP status (0 when the failure never reached HTTP), the envelope code
// (0 for transport failures), and a human-readable message. Unwrap yields
// the taxonomy sentinel, so callers classify with errors.Is.
type APIError struct {
	Status  int
	Code    int
	Message string

	kind error
}

func (e *APIError) Error() string {
	switch {
	case e.Code != 0:
		return fmt.Sprintf("%v (code %d): %s", e.kind, e.Code, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%v (status %d): %s", e.kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("%v: %s", e.kind, e.Message)
	}
}

func (e *APIError) Unwrap() error { return e.kind }

func newAPIError(kind error, status, code int, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
		kind:    kind,
	}
}
