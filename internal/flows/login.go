package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ihdrs/ihdrs-client-go/api"
)

// ErrInput reports client-side validation failure before any network call.
var ErrInput = errors.New("invalid input")

// ErrPayload reports a success envelope whose data is missing the token or
// profile. Treated like a failed login: state must not change on it.
var ErrPayload = errors.New("login payload incomplete")

// Login/registration input limits, mirroring the backend's request validation.
const (
	maxUsernameLen = 50
	minPasswordLen = 6
)

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	Call func(ctx context.Context, req api.LoginRequest) (*api.LoginPayload, error)
}

// RunLogin validates credentials client-side, calls the backend, and checks
// the payload is complete enough to commit.
func RunLogin(ctx context.Context, username, password string, deps LoginDeps) (*api.LoginPayload, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLen {
		return nil, fmt.Errorf("%w: username must be 1-%d characters", ErrInput, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInput, minPasswordLen)
	}

	payload, err := deps.Call(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	if payload == nil || payload.Token == "" || len(payload.UserInfo) == 0 {
		return nil, ErrPayload
	}
	return payload, nil
}
