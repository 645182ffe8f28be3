package ihdrs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ihdrs/ihdrs-client-go/internal/notify"
)

// ValidateSession asks the backend whether the current session is still
// accepted and, when it is, refreshes the profile from the response.
//
// The contract is fail-closed: rejection, timeout, network failure, and a
// locally-expired credential all clear the session before the error is
// returned. Only a logged-out Manager validates trivially, with no network
// call. Callers that must distinguish "no session" from "session confirmed"
// check [Manager.IsLoggedIn] first.
func (m *Manager) ValidateSession(ctx context.Context) error {
	if !m.ready() {
		return ErrManagerNotReady
	}

	credential, ok := m.Token()
	if !ok {
		return nil
	}

	start := time.Now()
	result := m.flows.Validate(ctx, credential)
	m.metrics.Observe(MetricValidateLatency, time.Since(start))

	if result.Err != nil {
		m.metrics.Inc(MetricValidateFailure)
		if result.ExpiredLocally {
			m.metrics.Inc(MetricValidateExpiredLocal)
		}
		m.ForcedLogout(ctx)
		return fmt.Errorf("%w: %w", ErrValidationFailed, result.Err)
	}

	var profile Profile
	if err := json.Unmarshal(result.Profile, &profile); err != nil || profile.IsEmpty() {
		m.metrics.Inc(MetricValidateFailure)
		m.ForcedLogout(ctx)
		return fmt.Errorf("%w: unusable profile in validation response", ErrValidationFailed)
	}

	// The backend's answer is the authority on the profile. Replace it whole
	// and re-persist so roles revoked server-side disappear immediately. If
	// the session changed during the round-trip the stale refresh is dropped
	// and the newer session stands, same as validating while logged out.
	committed, err := m.commitIfCurrent(ctx, credential, profile)
	if err != nil {
		m.metrics.Inc(MetricValidateFailure)
		m.notices.Post(ctx, notify.LevelWarning, "session",
			"refreshed session could not be saved", err)
		m.ForcedLogout(ctx)
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if !committed {
		return nil
	}

	m.metrics.Inc(MetricValidateSuccess)
	return nil
}
