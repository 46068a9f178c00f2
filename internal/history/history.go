// Package history keeps the durable log of spoken utterances.
//
// Entries are stored newest-first under a single key and capped; once the
// cap is reached the oldest entries are dropped on every Record.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nadzzz/talkboard/internal/kv"
)

// StorageKey is the kv key holding the JSON-encoded entry list.
const StorageKey = "history"

// DefaultMaxEntries is the cap used when none is configured.
const DefaultMaxEntries = 200

// Entry is a single spoken utterance. Entries are never mutated.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store records and lists history entries.
type Store struct {
	kv         kv.Store
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

// New creates a history store on top of kv. maxEntries <= 0 means DefaultMaxEntries.
func New(store kv.Store, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		kv:         store,
		maxEntries: maxEntries,
		now:        time.Now,
		entropy:    ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Record prepends a new entry and truncates the log to the cap.
// The entry is returned even when persisting it fails.
func (s *Store) Record(ctx context.Context, text, locale string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry := Entry{
		ID:        ulid.MustNew(ulid.Timestamp(now), s.entropy).String(),
		Text:      text,
		Locale:    locale,
		CreatedAt: now.UTC(),
	}

	entries := append([]Entry{entry}, s.load(ctx)...)
	if len(entries) > s.maxEntries {
		entries = entries[:s.maxEntries]
	}

	if err := s.save(ctx, entries); err != nil {
		return entry, err
	}
	return entry, nil
}

// List returns all entries, newest first. Storage failures yield an empty list.
func (s *Store) List(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get looks up a single entry by id.
func (s *Store) Get(ctx context.Context, id string) (Entry, bool) {
	for _, e := range s.List(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Clear removes every entry. It cannot be undone.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) []Entry {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		slog.Warn("history read failed, using empty history", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Warn("history data corrupt, using empty history", "error", err)
		return nil
	}
	return entries
}

func (s *Store) save(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshalling history: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}
