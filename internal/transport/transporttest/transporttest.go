// Package transporttest wires a complete in-memory service for transport
// tests: the offline voice plays into an audiotest.Player and translation
// goes through a canned provider.
package transporttest

import (
	"context"
	"strings"
	"testing"

	"github.com/nadzzz/talkboard/internal/audio/audiotest"
	"github.com/nadzzz/talkboard/internal/board"
	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/favorites"
	"github.com/nadzzz/talkboard/internal/history"
	"github.com/nadzzz/talkboard/internal/kv"
	"github.com/nadzzz/talkboard/internal/orchestrator"
	"github.com/nadzzz/talkboard/internal/suggest"
	"github.com/nadzzz/talkboard/internal/translate"
	"github.com/nadzzz/talkboard/internal/transport"
	"github.com/nadzzz/talkboard/internal/tts/offline"
)

// Provider translates by tagging the text with the language pair. It
// returns an empty result for text containing "untranslatable".
type Provider struct{}

func (Provider) Name() string { return "canned" }

func (Provider) Translate(_ context.Context, text, src, dst string) (string, error) {
	if strings.Contains(text, "untranslatable") {
		return "", nil
	}
	return dst + ":" + text, nil
}

// Env is a running service and its observable parts.
type Env struct {
	Service *transport.Service
	Player  *audiotest.Player
	Store   kv.Store
}

// New builds the service. The offline voice is ready and preferred for mg;
// there is no native engine.
func New(t *testing.T) *Env {
	t.Helper()
	ctx := context.Background()

	store := kv.NewMemory()
	player := &audiotest.Player{}
	off := offline.New(player, offline.Config{Languages: []string{"mg"}, SampleRate: 8000})
	if err := off.Init(ctx); err != nil {
		t.Fatalf("offline init: %v", err)
	}

	speech := orchestrator.New(ctx, store, off, nil, orchestrator.Config{DefaultLanguage: "fr", Volume: 1})
	t.Cleanup(func() { speech.Close() })

	b := board.New(
		catalog.New(),
		speech,
		history.New(store, 0),
		suggest.New(store),
		translate.New(store, 0, Provider{}),
		board.Config{DefaultLanguage: "fr"},
	)

	return &Env{
		Service: &transport.Service{Board: b, Speech: speech, Favorites: favorites.New(store), Version: "test"},
		Player:  player,
		Store:   store,
	}
}
