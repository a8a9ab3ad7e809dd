package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

func TestSaveAndLoadJSON(t *testing.T) {
	t.Parallel()

	store, err := Open(filepath.Join(t.TempDir(), "views"))
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}

	previews := []models.ChatPreview{
		{RequestID: "req-1", CounterpartID: "bob", LastMessage: "hi", LastMessageAt: time.Unix(1700000000, 0).UTC(), UnreadCount: 2},
	}
	if err := store.SaveJSON("alice/chat-previews", previews); err != nil {
		t.Fatalf("SaveJSON() unexpected error: %v", err)
	}
	if !store.Has("alice/chat-previews") {
		t.Fatal("expected key to exist after save")
	}

	loaded := make([]models.ChatPreview, 0)
	if err := store.LoadJSON("alice/chat-previews", &loaded); err != nil {
		t.Fatalf("LoadJSON() unexpected error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].UnreadCount != 2 || !loaded[0].LastMessageAt.Equal(previews[0].LastMessageAt) {
		t.Fatalf("unexpected round trip result %#v", loaded)
	}
}

func TestLoadJSONMiss(t *testing.T) {
	t.Parallel()

	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}

	var target map[string]string
	if err := store.LoadJSON("nobody/cycle-status", &target); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestEraseIgnoresMissingKey(t *testing.T) {
	t.Parallel()

	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	if err := store.Erase("missing/key"); err != nil {
		t.Fatalf("Erase() unexpected error: %v", err)
	}
	if err := store.SaveJSON("alice/view", map[string]int{"a": 1}); err != nil {
		t.Fatalf("SaveJSON() unexpected error: %v", err)
	}
	if err := store.Erase("alice/view"); err != nil {
		t.Fatalf("Erase() unexpected error: %v", err)
	}
	if store.Has("alice/view") {
		t.Fatal("expected key erased")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
