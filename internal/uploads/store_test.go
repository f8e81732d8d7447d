package uploads

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestStageAndOpen(t *testing.T) {
	store := newTestStore(t)
	id, url, err := store.Stage([]byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if url != "/uploads/"+id {
		t.Fatalf("unexpected preview url %q", url)
	}

	data, err := store.Open(id)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(data, []byte("jpeg-bytes")) {
		t.Fatalf("unexpected data %q", data)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	id, _, err := store.Stage([]byte("x"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if err := store.Remove(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(id); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	if _, err := store.Open(id); !errors.Is(err, ErrNotStaged) {
		t.Fatalf("expected ErrNotStaged after remove, got %v", err)
	}
}

func TestRemoveAllReleasesEverything(t *testing.T) {
	store := newTestStore(t)
	var ids []string
	for i := 0; i < 3; i++ {
		id, _, err := store.Stage([]byte{byte(i)})
		if err != nil {
			t.Fatalf("stage: %v", err)
		}
		ids = append(ids, id)
	}
	if err := store.RemoveAll(ids); err != nil {
		t.Fatalf("remove all: %v", err)
	}
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
}

func TestOpenRejectsPathEscape(t *testing.T) {
	store := newTestStore(t)
	outside := filepath.Join(store.Dir(), "..", "secret")
	if err := os.WriteFile(outside, []byte("nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Open("../secret"); !errors.Is(err, ErrNotStaged) {
		t.Fatalf("expected ErrNotStaged for traversal, got %v", err)
	}
}
