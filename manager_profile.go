package ihdrs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ihdrs/ihdrs-client-go/credstore"
)

// RefreshProfile fetches the profile from the backend and replaces the local
// copy. Unlike [Manager.ValidateSession] a failure here does not clear the
// session unless the pipeline already did so on a 401.
func (m *Manager) RefreshProfile(ctx context.Context) (Snapshot, error) {
	if !m.ready() {
		return Snapshot{}, ErrManagerNotReady
	}
	credential, ok := m.Token()
	if !ok {
		return Snapshot{}, ErrNotLoggedIn
	}

	raw, err := m.api.UserInfo(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil || profile.IsEmpty() {
		return Snapshot{}, fmt.Errorf("unusable profile in response")
	}

	committed, err := m.commitIfCurrent(ctx, credential, profile)
	if err != nil {
		return Snapshot{}, err
	}
	if !committed {
		// The session this refresh belonged to is gone.
		return Snapshot{}, ErrNotLoggedIn
	}
	m.metrics.Inc(MetricProfileUpdated)
	return m.Snapshot(), nil
}

// UpdateProfile applies a shallow local field update and persists it. Fields
// the profile does not name land in its extension map. Intended for
// optimistic UI updates after a successful profile edit call; the next
// validation replaces the profile with the backend's copy regardless.
func (m *Manager) UpdateProfile(ctx context.Context, fields map[string]any) (Snapshot, error) {
	if !m.ready() {
		return Snapshot{}, ErrManagerNotReady
	}

	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return Snapshot{}, ErrNotLoggedIn
	}

	updated := m.profile.Clone()
	if err := updated.merge(fields); err != nil {
		m.mu.Unlock()
		return Snapshot{}, err
	}
	raw, err := json.Marshal(updated)
	if err != nil {
		m.mu.Unlock()
		return Snapshot{}, fmt.Errorf("encode profile: %w", err)
	}
	if err := m.store.Save(ctx, credstore.Record{Token: m.token, Profile: raw}); err != nil {
		m.mu.Unlock()
		return Snapshot{}, fmt.Errorf("persist session: %w", err)
	}
	m.setSessionLocked(m.token, updated)
	m.mu.Unlock()

	m.metrics.Inc(MetricProfileUpdated)
	return m.Snapshot(), nil
}
