// Package ihdrs is the client-side session core shared by the IHDRS admin
// console and mobile app. It owns the authenticated session — bearer
// credential, user profile, derived roles and permissions — and coordinates
// the three parties that depend on it: the durable credential store, the
// HTTP request pipeline, and the navigation guard.
//
// The package is designed around a single source of truth: [Manager] is the
// only writer of session state and of the credential store. The pipeline
// (package transport) reads the credential through the Manager and reports
// authentication failures back to it; the guard (package guard) asks the
// Manager whether a navigation may proceed. Manager methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// ihdrs is the public surface. It exposes [Manager], [Builder], [Config],
// sentinel errors, and value types (Profile, Snapshot, MetricsSnapshot,
// Notice). Flow orchestration and notice dispatch live under internal/ and
// are never exported directly.
//
// # What this package must NOT do
//
//   - Verify or mint credentials (the backend owns token cryptography).
//   - Drive navigation itself — operations return redirect intents and a
//     thin adapter in the host app interprets them.
//   - Let any reader observe a credential without its profile, or a profile
//     without its credential.
//
// # Fail-closed contract
//
// An unverifiable session is no session: any failure during
// [Manager.ValidateSession] — rejection, network error, timeout, or a
// locally-expired token — clears both the in-memory and the persisted state
// before the error is returned.
package ihdrs
