package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/nadzzz/talkboard/internal/kv"
	"github.com/nadzzz/talkboard/internal/kv/kvtest"
)

func TestRecordNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), 0)

	first, err := s.Record(ctx, "bonjour", "fr")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	second, _ := s.Record(ctx, "merci", "fr")

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected unique ids, got %q and %q", first.ID, second.ID)
	}
	if second.ID <= first.ID {
		t.Errorf("expected monotonic ids, %q <= %q", second.ID, first.ID)
	}

	got := s.List(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Text != "merci" || got[1].Text != "bonjour" {
		t.Errorf("expected newest first, got %q, %q", got[0].Text, got[1].Text)
	}
}

func TestRecordCap(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), 200)

	for i := 0; i < 205; i++ {
		if _, err := s.Record(ctx, fmt.Sprintf("utterance %d", i), "fr"); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	got := s.List(ctx)
	if len(got) != 200 {
		t.Fatalf("expected 200 entries, got %d", len(got))
	}
	if got[0].Text != "utterance 204" {
		t.Errorf("expected newest first, got %q", got[0].Text)
	}
	if got[199].Text != "utterance 5" {
		t.Errorf("expected the 5 oldest evicted, last is %q", got[199].Text)
	}
}

func TestClearAndGet(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), 0)

	e, _ := s.Record(ctx, "aidez-moi", "fr")
	if got, ok := s.Get(ctx, e.ID); !ok || got.Text != "aidez-moi" {
		t.Fatalf("expected to find entry, got %+v ok=%v", got, ok)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.List(ctx); len(got) != 0 {
		t.Errorf("expected empty history, got %d entries", len(got))
	}
	if _, ok := s.Get(ctx, e.ID); ok {
		t.Error("expected entry gone after clear")
	}
}

func TestPersistenceFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	store := kvtest.NewFailing()
	s := New(store, 0)

	if got := s.List(ctx); len(got) != 0 {
		t.Errorf("expected empty list on read failure, got %d", len(got))
	}

	e, err := s.Record(ctx, "salama", "mg")
	if err == nil {
		t.Error("expected write error to be reported")
	}
	if e.Text != "salama" || e.ID == "" {
		t.Errorf("expected entry returned despite failure, got %+v", e)
	}
}

func TestCorruptDataYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	store.Set(ctx, StorageKey, "{not json")
	s := New(store, 0)

	if got := s.List(ctx); len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
	if _, err := s.Record(ctx, "ok", "en"); err != nil {
		t.Fatalf("record over corrupt data: %v", err)
	}
	if got := s.List(ctx); len(got) != 1 {
		t.Errorf("expected 1 entry after recovery, got %d", len(got))
	}
}
