// Package favorites keeps the user's shortcuts: favourite pictograms,
// favourite typed phrases and custom quick messages.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nadzzz/talkboard/internal/kv"
)

// Storage keys, each holding a JSON list.
const (
	KeyPictograms = "favorites.pictograms"
	KeyPhrases    = "favorites.phrases"
	KeyMessages   = "custom_messages"
)

var (
	// ErrEmpty is returned when a phrase or message label is blank.
	ErrEmpty = errors.New("favorites: text is empty")
	// ErrNotFound is returned when deleting an unknown message.
	ErrNotFound = errors.New("favorites: message not found")
)

// Message is a custom quick message.
type Message struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Imagery string    `json:"imagery,omitempty"`
	Created time.Time `json:"createdAt"`
}

// Store persists the shortcut lists in kv.
type Store struct {
	kv  kv.Store
	now func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

// New creates a store on top of kv.
func New(store kv.Store) *Store {
	return &Store{
		kv:      store,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Pictograms returns the favourite pictogram ids in the order they were added.
func (s *Store) Pictograms(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	s.load(ctx, KeyPictograms, &ids)
	return ids
}

// SetPictogram marks or unmarks a pictogram as favourite.
func (s *Store) SetPictogram(ctx context.Context, id string, favorite bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmpty
	}
	return s.setMember(ctx, KeyPictograms, id, favorite)
}

// Phrases returns the favourite typed phrases.
func (s *Store) Phrases(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var phrases []string
	s.load(ctx, KeyPhrases, &phrases)
	return phrases
}

// SetPhrase marks or unmarks a typed phrase as favourite.
func (s *Store) SetPhrase(ctx context.Context, text string, favorite bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmpty
	}
	return s.setMember(ctx, KeyPhrases, text, favorite)
}

func (s *Store) setMember(ctx context.Context, key, v string, member bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []string
	s.load(ctx, key, &list)
	i := slices.Index(list, v)
	switch {
	case member && i < 0:
		list = append(list, v)
	case !member && i >= 0:
		list = slices.Delete(list, i, i+1)
	default:
		return nil
	}
	return s.save(ctx, key, list)
}

// Messages returns the custom quick messages, oldest first.
func (s *Store) Messages(ctx context.Context) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var msgs []Message
	s.load(ctx, KeyMessages, &msgs)
	return msgs
}

// Message looks up a quick message by id.
func (s *Store) Message(ctx context.Context, id string) (Message, bool) {
	for _, m := range s.Messages(ctx) {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// AddMessage appends a quick message.
func (s *Store) AddMessage(ctx context.Context, label, imagery string) (Message, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Message{}, ErrEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	m := Message{
		ID:      ulid.MustNew(ulid.Timestamp(now), s.entropy).String(),
		Label:   label,
		Imagery: strings.TrimSpace(imagery),
		Created: now.UTC(),
	}
	var msgs []Message
	s.load(ctx, KeyMessages, &msgs)
	if err := s.save(ctx, KeyMessages, append(msgs, m)); err != nil {
		return Message{}, err
	}
	return m, nil
}

// DeleteMessage removes a quick message.
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var msgs []Message
	s.load(ctx, KeyMessages, &msgs)
	i := slices.IndexFunc(msgs, func(m Message) bool { return m.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.save(ctx, KeyMessages, slices.Delete(msgs, i, i+1))
}

// load decodes key into v. Missing, unreadable or corrupt data leaves v empty.
func (s *Store) load(ctx context.Context, key string, v any) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("favorites read failed, using empty list", "key", key, "error", err)
		return
	}
	if !ok || raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		slog.Warn("favorites data corrupt, using empty list", "key", key, "error", err)
	}
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
