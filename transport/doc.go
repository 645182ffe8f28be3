// Package transport implements the HTTP request pipeline between the IHDRS
// clients and the backend: bearer-credential attachment, response-envelope
// unwrapping, and classification of failures into a fixed taxonomy.
//
// # Envelope
//
// Every backend response is a JSON envelope {code, message, data, timestamp}.
// code 200 is the success sentinel; any other code is a business failure
// carrying a human-readable message. Transport-level failures (HTTP status,
// timeouts, connection errors) are classified separately — see errors.go.
//
// # Architecture boundaries
//
// This package owns wire mechanics and failure classification. It does NOT
// own session state: a 401 response triggers the caller-supplied
// [Hooks].OnUnauthorized callback, and the Manager decides what that means.
//
// # What this package must NOT do
//
//   - Read or write the credential store (credentials come from [TokenSource]).
//   - Retry requests or mutate session state.
//   - Interpret payloads beyond the envelope (typed decoding belongs to api).
package transport
