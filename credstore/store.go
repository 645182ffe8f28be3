package credstore

import (
	"context"
	"encoding/json"
	"errors"
)

// Storage keys, fixed and versionless. They match the web console's
// localStorage layout so a Go host and a browser host persist the same shape.
const (
	KeyToken   = "ihdrs_token"
	KeyProfile = "ihdrs_user_info"
)

// ErrCorrupt reports a durable record that could not be decoded. Loaders
// treat it as "logged out", not as a failure; it is surfaced so hosts can log.
var ErrCorrupt = errors.New("credential store corrupt")

// Record is the durable session slot: the bearer credential and the
// JSON-serialized profile. Either or both may be empty; an all-empty record
// means logged out.
type Record struct {
	Token   string          `json:"ihdrs_token,omitempty"`
	Profile json.RawMessage `json:"ihdrs_user_info,omitempty"`
}

// Empty reports whether the record holds no session.
func (r Record) Empty() bool {
	return r.Token == "" && len(r.Profile) == 0
}

// Store is the single shared durable slot for session state. The Manager is
// its only writer; everything else reads session state through the Manager.
//
// Contract: Load returns the empty record (and optionally a wrapped
// [ErrCorrupt]) when nothing usable is persisted — absence is not an error.
// Save must not leave a partial record visible: both keys land together or
// not at all. Clear is idempotent.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}
