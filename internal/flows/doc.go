// Package flows contains pure-function orchestrators for the Manager's
// backend-facing operations.
//
// Each flow function (RunLogin, RunRegister, RunValidate) accepts a typed
// dependency struct and returns results without side effects beyond those
// dependencies. State commits, persistence, notices, and metrics all stay
// with the Manager; flows only validate input, call the backend, and shape
// the result.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import the root package (to avoid import cycles).
//   - Touch the credential store or emit notices directly.
package flows
