// Package token peeks at bearer credentials issued by the IHDRS backend.
//
// The backend signs HS256 JWTs carrying userId, username, and role claims.
// The client holds no verification key and must never trust these claims for
// authorization — [Peek] exists only for display and for the local expiry
// fast path in session validation. A credential that does not parse as a
// JWT is still a valid opaque credential.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotToken reports a credential that is not a parseable JWT.
var ErrNotToken = errors.New("credential is not a parseable token")

// Claims are the unverified claims of a backend-issued credential.
type Claims struct {
	UserID    int64
	Username  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Peek parses the credential WITHOUT signature verification.
func Peek(credential string) (*Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotToken, err)
	}

	out := &Claims{}
	if v, ok := claims["userId"].(float64); ok {
		out.UserID = int64(v)
	}
	if v, ok := claims["username"].(string); ok {
		out.Username = v
	}
	if out.Username == "" {
		if sub, err := claims.GetSubject(); err == nil {
			out.Username = sub
		}
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Expired reports whether the credential's exp claim has passed. A missing
// exp claim never counts as expired; the backend stays authoritative.
func (c *Claims) Expired(now time.Time, leeway time.Duration) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt.Add(leeway))
}
