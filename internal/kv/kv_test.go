package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStores(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemory(),
		"sqlite": newTestSQLite(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
			}

			if err := s.Set(ctx, "k", "v1"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := s.Set(ctx, "k", "v2"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, ok, err := s.Get(ctx, "k")
			if err != nil || !ok || got != "v2" {
				t.Fatalf("expected v2, got %q ok=%v err=%v", got, ok, err)
			}

			if err := s.Remove(ctx, "k"); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "k"); ok {
				t.Error("expected key removed")
			}
			// Removing an absent key is not an error.
			if err := s.Remove(ctx, "k"); err != nil {
				t.Errorf("remove absent: %v", err)
			}
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "tts.volume", "0.5"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, ok, err := s2.Get(ctx, "tts.volume")
	if err != nil || !ok || got != "0.5" {
		t.Errorf("expected persisted value, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	m.Close()
	if err := m.Set(context.Background(), "a", "b"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
