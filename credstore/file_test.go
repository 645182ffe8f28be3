package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store, path
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	want := Record{
		Token:   "tok-123",
		Profile: json.RawMessage(`{"userId":1,"username":"demo","role":"USER"}`),
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Token != want.Token {
		t.Fatalf("token = %q, want %q", got.Token, want.Token)
	}
	if string(got.Profile) != string(want.Profile) {
		t.Fatalf("profile = %s, want %s", got.Profile, want.Profile)
	}
}

func TestFileStoreLoadMissingIsEmpty(t *testing.T) {
	store, _ := newTestFileStore(t)

	rec, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if !rec.Empty() {
		t.Fatalf("expected empty record, got %+v", rec)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Record{Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load on corrupt file: err = %v, want ErrCorrupt", err)
	}
}

func TestFileStoreClearIdempotent(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Record{Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("first Clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}

	rec, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load after clear: %v", err)
	}
	if !rec.Empty() {
		t.Fatalf("expected empty record after clear, got %+v", rec)
	}
}

func TestFileStoreSaveReplacesWhole(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	first := Record{Token: "old", Profile: json.RawMessage(`{"userId":1}`)}
	second := Record{Token: "new", Profile: json.RawMessage(`{"userId":2}`)}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Token != "new" || string(got.Profile) != `{"userId":2}` {
		t.Fatalf("got %+v, want second record", got)
	}
}

func TestFileStorePermissions(t *testing.T) {
	store, path := newTestFileStore(t)

	if err := store.Save(context.Background(), Record{Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}
}
