package flows

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ihdrs/ihdrs-client-go/api"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RegisterDeps captures registration flow dependencies.
type RegisterDeps struct {
	Call func(ctx context.Context, req api.RegisterRequest) (json.RawMessage, error)
}

// RunRegister validates the registration form and calls the backend.
// Registration never touches session state, so there is nothing to shape:
// the raw created record is returned for display only.
func RunRegister(ctx context.Context, req api.RegisterRequest, deps RegisterDeps) (json.RawMessage, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Username) > maxUsernameLen {
		return nil, fmt.Errorf("%w: username must be 1-%d characters", ErrInput, maxUsernameLen)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInput, minPasswordLen)
	}
	if req.Email != "" && (len(req.Email) > 255 || !emailRegex.MatchString(req.Email)) {
		return nil, fmt.Errorf("%w: invalid email address", ErrInput)
	}

	return deps.Call(ctx, req)
}
