package ihdrs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ihdrs/ihdrs-client-go/api"
	"github.com/ihdrs/ihdrs-client-go/internal/flows"
	"github.com/ihdrs/ihdrs-client-go/internal/notify"
	"github.com/ihdrs/ihdrs-client-go/transport"
)

// Login authenticates and commits the resulting session. On success the
// previous session, if any, is replaced whole; on any failure the previous
// session is untouched. The result's RedirectTo is the resume path when one
// is supplied, otherwise the configured default landing.
//
// Input rejected client-side and logins rejected by the backend's business
// logic both surface as [ErrInvalidCredentials]; transport failures keep
// their pipeline classification.
func (m *Manager) Login(ctx context.Context, creds Credentials, resumePath string) (*LoginResult, error) {
	if !m.ready() {
		return nil, ErrManagerNotReady
	}

	payload, err := m.flows.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		m.metrics.Inc(MetricLoginFailure)
		return nil, m.authFailure(ctx, "login", err)
	}

	var profile Profile
	if err := json.Unmarshal(payload.UserInfo, &profile); err != nil || profile.IsEmpty() {
		m.metrics.Inc(MetricLoginFailure)
		return nil, fmt.Errorf("%w: unusable profile in login response", ErrInvalidCredentials)
	}

	if err := m.commitSession(ctx, payload.Token, profile); err != nil {
		m.metrics.Inc(MetricLoginFailure)
		m.notices.Post(ctx, notify.LevelError, "login",
			"login could not be saved, please try again", err)
		return nil, err
	}

	m.metrics.Inc(MetricLoginSuccess)
	m.notices.Post(ctx, notify.LevelSuccess, "login",
		"welcome back, "+profile.Username, nil)

	return &LoginResult{
		Snapshot:   m.Snapshot(),
		TokenType:  payload.TokenType,
		ExpiresIn:  payload.ExpiresIn,
		RedirectTo: m.landing(resumePath),
	}, nil
}

// authFailure maps flow and business rejections onto ErrInvalidCredentials
// while preserving the backend's message and the original cause.
func (m *Manager) authFailure(ctx context.Context, source string, err error) error {
	switch {
	case errors.Is(err, flows.ErrInput):
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, err.Error())
	case errors.Is(err, transport.ErrBusiness):
		message := "username or password incorrect"
		var apiErr *transport.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			message = apiErr.Message
		}
		m.notices.Post(ctx, notify.LevelError, source, message, nil)
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, message)
	case errors.Is(err, flows.ErrPayload):
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, err.Error())
	default:
		// Transport class errors pass through with their own taxonomy.
		return err
	}
}

// Register creates an account. It never logs the user in and never touches
// session state; the result redirects to the login route.
func (m *Manager) Register(ctx context.Context, reg Registration) (*RegisterResult, error) {
	if !m.ready() {
		return nil, ErrManagerNotReady
	}

	created, err := m.flows.Register(ctx, api.RegisterRequest{
		Username: reg.Username,
		Password: reg.Password,
		Email:    reg.Email,
		Phone:    reg.Phone,
	})
	if err != nil {
		m.metrics.Inc(MetricRegisterFailure)
		if errors.Is(err, flows.ErrInput) || errors.Is(err, transport.ErrBusiness) {
			return nil, m.authFailure(ctx, "register", err)
		}
		return nil, err
	}

	m.metrics.Inc(MetricRegisterSuccess)
	m.notices.Post(ctx, notify.LevelSuccess, "register",
		"account created, please log in", nil)

	return &RegisterResult{
		Created:    created,
		RedirectTo: m.cfg.Routes.Login,
	}, nil
}

// Logout is the user-initiated logout. It always succeeds locally: the store
// clear is best-effort and a failure there is reported as a notice, never as
// an error that would leave the user "stuck" logged in.
//
// The store clear runs inside the same critical section as the memory clear.
// A login committing concurrently therefore serializes either entirely before
// this logout (and is cleared with it) or entirely after (and survives it,
// persisted copy included); a lagging clear can never wipe the winner's
// persisted session.
func (m *Manager) Logout(ctx context.Context) Redirect {
	m.mu.Lock()
	had := m.clearSessionLocked()
	clearErr := m.store.Clear(ctx)
	m.mu.Unlock()

	if clearErr != nil {
		m.notices.Post(ctx, notify.LevelWarning, "logout",
			"stored session could not be removed", clearErr)
	}
	if had {
		m.metrics.Inc(MetricLogout)
		m.notices.Post(ctx, notify.LevelInfo, "logout", "logged out", nil)
	}
	return Redirect{To: m.cfg.Routes.Login}
}

// ForcedLogout clears the session in reaction to the backend no longer
// accepting it. Safe to call concurrently and repeatedly: only the call that
// actually transitions the session to logged-out emits the notice and the
// forced-logout metric. Memory and storage are cleared in one critical
// section, so a re-login that wins the race keeps both copies intact.
func (m *Manager) ForcedLogout(ctx context.Context) Redirect {
	m.mu.Lock()
	had := m.clearSessionLocked()
	var clearErr error
	if had {
		clearErr = m.store.Clear(ctx)
	}
	m.mu.Unlock()

	if had {
		if clearErr != nil {
			m.notices.Post(ctx, notify.LevelWarning, "logout",
				"stored session could not be removed", clearErr)
		}
		m.metrics.Inc(MetricForcedLogout)
		m.notices.Post(ctx, notify.LevelWarning, "logout",
			"session expired, please log in again", nil)
	}
	return Redirect{To: m.cfg.Routes.Login}
}

// landing picks the post-login destination. A resume path wins over the
// default landing, but never back to the login or register page.
func (m *Manager) landing(resumePath string) string {
	if resumePath == "" ||
		resumePath == m.cfg.Routes.Login ||
		resumePath == m.cfg.Routes.Register {
		return m.cfg.Routes.DefaultLanding
	}
	return resumePath
}
