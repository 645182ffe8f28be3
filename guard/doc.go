// Package guard decides whether a navigation may proceed. It is the
// client-side counterpart of a router's before-each hook: the host app asks
// before every route change, and the guard answers allow or redirect.
//
// # Architecture boundaries
//
// The guard consults the session through the [Authority] interface and
// never mutates it directly; forced logouts happen inside the Manager when
// validation fails. The guard also never navigates. It returns a [Decision]
// and the host's adapter performs the actual route change.
//
// # Fail-closed defaults
//
// A path missing from the [Table] is protected. A protected navigation with
// a session still re-validates against the backend, so a revoked session is
// caught on the very next route change rather than on the next API call.
package guard
