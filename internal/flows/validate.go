package flows

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ihdrs/ihdrs-client-go/token"
)

// ErrExpiredLocally reports a credential whose own exp claim has already
// passed, detected without a network round-trip.
var ErrExpiredLocally = errors.New("credential expired")

// ValidateDeps captures validation flow dependencies.
type ValidateDeps struct {
	// Peek is optional; when set and the credential parses as a token whose
	// expiry has passed, validation fails fast without calling the backend.
	Peek   func(credential string) (*token.Claims, error)
	Now    func() time.Time
	Leeway time.Duration

	Call func(ctx context.Context) (json.RawMessage, error)
}

// ValidateResult carries the refreshed profile or the failure cause.
type ValidateResult struct {
	Profile        json.RawMessage
	ExpiredLocally bool
	Err            error
}

// RunValidate checks the current credential against the backend and returns
// the refreshed profile. Every failure path is terminal for the session —
// the Manager translates any non-nil Err into a forced logout.
func RunValidate(ctx context.Context, credential string, deps ValidateDeps) ValidateResult {
	if deps.Peek != nil {
		now := time.Now
		if deps.Now != nil {
			now = deps.Now
		}
		if claims, err := deps.Peek(credential); err == nil && claims.Expired(now(), deps.Leeway) {
			return ValidateResult{ExpiredLocally: true, Err: ErrExpiredLocally}
		}
	}

	profile, err := deps.Call(ctx)
	if err != nil {
		return ValidateResult{Err: err}
	}
	if len(profile) == 0 {
		return ValidateResult{Err: errors.New("validation returned empty profile")}
	}
	return ValidateResult{Profile: profile}
}
