// Package notify implements async dispatch of user-facing notices.
//
// # Components
//
//   - [Sink] — interface for notice consumers (channel, JSON writer, no-op).
//   - [Dispatcher] — buffered async relay with drop-if-full / block-if-full semantics.
//   - [Notice] — a timestamped, leveled message the host UI shows to the user.
//
// # Architecture boundaries
//
// This package owns notice buffering and sink delivery. It does NOT decide
// which notices to emit — that responsibility belongs to the Manager, the
// request pipeline, and the navigation guard.
//
// # What this package must NOT do
//
//   - Filter or suppress notices based on business logic.
//   - Import the root package or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package notify
