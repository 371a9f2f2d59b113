package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andeanbio/biomon/pkg/api"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return &Store{Path: filepath.Join(t.TempDir(), "session.json")}
}

func TestStore_RoundTrip(t *testing.T) {
	store := tempStore(t)

	user := &api.User{ID: 7, Name: "Ana", Email: "ana@x.com", Title: "MSc"}
	if err := store.Save(user); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got == nil || got.ID != 7 || got.Email != "ana@x.com" || got.Title != "MSc" {
		t.Fatalf("unexpected identity: %#v", got)
	}
}

func TestStore_AbsentMeansLoggedOut(t *testing.T) {
	store := tempStore(t)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent session, got %#v", got)
	}
}

func TestStore_CorruptFileIsCleared(t *testing.T) {
	store := tempStore(t)
	if err := os.WriteFile(store.Path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected logged out for corrupt file, got %#v", got)
	}
	if _, err := os.Stat(store.Path); !os.IsNotExist(err) {
		t.Fatal("expected corrupt session file to be removed")
	}
}

func TestStore_Clear(t *testing.T) {
	store := tempStore(t)

	if err := store.Clear(); err != nil {
		t.Fatalf("clearing absent session should not fail: %v", err)
	}

	if err := store.Save(&api.User{ID: 1, Name: "Ana", Email: "ana@x.com"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected logged out after clear, got %#v", got)
	}
}
