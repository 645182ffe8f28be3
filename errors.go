package ihdrs

import (
	"errors"

	"github.com/ihdrs/ihdrs-client-go/transport"
)

var (
	// ErrInvalidCredentials reports a login or registration rejected by the
	// backend's business logic, or input that would be rejected before the
	// wire. Recoverable: the user retries with corrected input.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidationFailed reports a session the backend no longer accepts.
	// Not recoverable locally; the session has already been cleared when a
	// caller sees this.
	ErrValidationFailed = errors.New("session validation failed")
	// ErrNotLoggedIn reports an operation that requires a session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrManagerNotReady reports use of a Manager that was not built through
	// the Builder.
	ErrManagerNotReady = errors.New("manager not ready")
	// ErrBuilderUsed reports a second Build on the same Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrStoreRequired reports a Build without a credential store.
	ErrStoreRequired = errors.New("credential store required")
)

// Pipeline taxonomy, re-exported so callers classify errors from any Manager
// operation with errors.Is against this package alone.
var (
	// ErrBadRequest is the HTTP 400 class.
	ErrBadRequest = transport.ErrBadRequest
	// ErrUnauthorized is the HTTP 401 class; observing it anywhere implies
	// the session has been force-cleared.
	ErrUnauthorized = transport.ErrUnauthorized
	// ErrPermissionDenied is the HTTP 403 class: authenticated but
	// under-privileged. Session untouched.
	ErrPermissionDenied = transport.ErrForbidden
	// ErrNotFound is the HTTP 404 class.
	ErrNotFound = transport.ErrNotFound
	// ErrServer is the HTTP 5xx class.
	ErrServer = transport.ErrServer
	// ErrTimeout is the transport deadline class.
	ErrTimeout = transport.ErrTimeout
	// ErrNetwork is the connection failure class.
	ErrNetwork = transport.ErrNetwork
	// ErrRequestFailed covers transport failures the taxonomy does not name.
	ErrRequestFailed = transport.ErrRequestFailed
)
