package ihdrs

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ihdrs/ihdrs-client-go/api"
	"github.com/ihdrs/ihdrs-client-go/credstore"
	"github.com/ihdrs/ihdrs-client-go/internal/flows"
	"github.com/ihdrs/ihdrs-client-go/internal/notify"
	"github.com/ihdrs/ihdrs-client-go/token"
)

// Manager owns the session: the bearer credential, the profile, and the
// roles and permissions derived from it. It is the single writer of both the
// in-memory state and the credential store. Build one through [Builder].
type Manager struct {
	cfg     Config
	store   credstore.Store
	api     *api.Client
	flows   flows.Service
	metrics *Metrics
	notices *notify.Dispatcher

	// mu guards the session fields below. Every mutation happens under the
	// write lock, and persistence happens inside the same critical section
	// so no reader can observe a committed-but-unpersisted session.
	mu      sync.RWMutex
	token   string
	profile Profile
	roles   []string
	perms   []string
}

// setSessionLocked installs a session. Caller holds mu.
func (m *Manager) setSessionLocked(tok string, profile Profile) {
	m.token = tok
	m.profile = profile
	m.roles = nil
	if profile.Role != "" {
		m.roles = []string{profile.Role}
	}
	m.perms = append([]string(nil), profile.Permissions...)
}

// clearSessionLocked drops the session and reports whether one existed.
// Caller holds mu. The distinction matters for idempotence: concurrent 401s
// race to clear, and only the winner emits the logout notice and metric.
func (m *Manager) clearSessionLocked() bool {
	had := m.token != ""
	m.token = ""
	m.profile = Profile{}
	m.roles = nil
	m.perms = nil
	return had
}

// commitSession persists and then installs a new session atomically with
// respect to readers. If persistence fails nothing changes.
func (m *Manager) commitSession(ctx context.Context, tok string, profile Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(ctx, credstore.Record{Token: tok, Profile: raw}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.setSessionLocked(tok, profile)
	return nil
}

// commitIfCurrent is commitSession for profile refreshes that started earlier
// under credential tok: the write is dropped, without error, when the session
// changed during the round-trip. A logout or re-login that lands while a
// refresh is in flight wins over the stale response. Returns whether the
// commit happened.
func (m *Manager) commitIfCurrent(ctx context.Context, tok string, profile Profile) (bool, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return false, fmt.Errorf("encode profile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != tok {
		return false, nil
	}
	if err := m.store.Save(ctx, credstore.Record{Token: tok, Profile: raw}); err != nil {
		return false, fmt.Errorf("persist session: %w", err)
	}
	m.setSessionLocked(tok, profile)
	return true, nil
}

// ready reports whether the Manager was assembled by the Builder.
func (m *Manager) ready() bool {
	return m != nil && m.store != nil && m.flows.Initialized()
}

// Token implements the pipeline's credential source. The second return is
// false when there is no session, so the pipeline sends no Authorization
// header at all rather than an empty one.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// IsLoggedIn reports whether a session is present. It says nothing about
// whether the backend still accepts it; see [Manager.ValidateSession].
func (m *Manager) IsLoggedIn() bool {
	_, ok := m.Token()
	return ok
}

// Snapshot returns a point-in-time copy of the session. When logged out the
// snapshot is zero-valued.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Profile:     m.profile.Clone(),
		Roles:       append([]string(nil), m.roles...),
		Permissions: append([]string(nil), m.perms...),
	}
}

// Username returns the logged-in username, or "" when logged out.
func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile.Username
}

// UserID returns the logged-in user ID, or 0 when logged out.
func (m *Manager) UserID() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile.UserID
}

// HasRole reports whether the session carries the role. The admin role
// passes every role check; an empty session passes none.
func (m *Manager) HasRole(role string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" || role == "" {
		return false
	}
	if m.profile.Role == m.cfg.Routes.AdminRole {
		return true
	}
	return slices.Contains(m.roles, role)
}

// HasPermission reports whether the session carries the permission. Admins
// pass every permission check.
func (m *Manager) HasPermission(perm string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" || perm == "" {
		return false
	}
	if m.profile.Role == m.cfg.Routes.AdminRole {
		return true
	}
	return slices.Contains(m.perms, perm)
}

// IsAdmin reports whether the session's role is the configured admin role.
func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != "" && m.profile.Role == m.cfg.Routes.AdminRole
}

// SessionExpiresAt returns the credential's expiry as claimed by the token
// itself, unverified. ok is false when logged out or the credential does not
// parse as a token with an expiry.
func (m *Manager) SessionExpiresAt() (expiresAt time.Time, ok bool) {
	tok, ok := m.Token()
	if !ok {
		return time.Time{}, false
	}
	claims, err := token.Peek(tok)
	if err != nil || claims.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

// API exposes the typed backend surface running through the authenticated
// pipeline, for calls beyond the session lifecycle (recognition, history,
// feedback).
func (m *Manager) API() *api.Client {
	return m.api
}

// Notify posts a notice onto the session's dispatcher.
func (m *Manager) Notify(ctx context.Context, level NoticeLevel, source, message string) {
	m.notices.Post(ctx, level, source, message, nil)
}

// Metrics returns the Manager's counter set. Never nil after Build.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// MetricsSnapshot copies the current counter values.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// NoticesDropped reports how many notices the dispatcher shed under
// backpressure.
func (m *Manager) NoticesDropped() uint64 {
	return m.notices.Dropped()
}

// Close drains and stops the notice dispatcher. The Manager is unusable for
// notices afterwards; session state is untouched.
func (m *Manager) Close() {
	m.notices.Close()
}
