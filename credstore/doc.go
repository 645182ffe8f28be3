// Package credstore provides durable persistence for the session credential
// and profile blob.
//
// # Implementations
//
//   - [FileStore] — one JSON document, atomically replaced; the default for
//     CLI and mobile-style embedding.
//   - [RedisStore] — two keys under a prefix, written transactionally; for
//     console deployments sharing session state across processes.
//   - [MemStore] — in-memory, for tests and ephemeral sessions.
//
// # Architecture boundaries
//
// This package owns the durable slot and nothing else. It does NOT interpret
// the profile payload, expire credentials, or decide what "logged in" means —
// those responsibilities belong to the Manager, its only writer.
//
// # What this package must NOT do
//
//   - Import the root package or transport (no upward imports).
//   - Validate credentials or call the network.
//   - Fail a Load because nothing has been persisted yet.
package credstore
