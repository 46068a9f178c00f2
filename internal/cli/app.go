package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nadzzz/talkboard/internal/audio"
	"github.com/nadzzz/talkboard/internal/board"
	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/config"
	"github.com/nadzzz/talkboard/internal/favorites"
	"github.com/nadzzz/talkboard/internal/history"
	"github.com/nadzzz/talkboard/internal/kv"
	"github.com/nadzzz/talkboard/internal/orchestrator"
	"github.com/nadzzz/talkboard/internal/suggest"
	"github.com/nadzzz/talkboard/internal/translate"
	"github.com/nadzzz/talkboard/internal/translate/deepl"
	"github.com/nadzzz/talkboard/internal/translate/google"
	"github.com/nadzzz/talkboard/internal/transport"
	"github.com/nadzzz/talkboard/internal/tts"
	"github.com/nadzzz/talkboard/internal/tts/native"
	"github.com/nadzzz/talkboard/internal/tts/offline"
)

// newPlayer opens the audio output. Tests replace it.
var newPlayer = func() (audio.Player, error) {
	return audio.NewMalgoPlayer()
}

// findEngine locates the platform speech engine. Tests replace it.
var findEngine = func(cfg config.NativeConfig) (native.Engine, error) {
	return native.NewExec(cfg.Engine, cfg.Binary, cfg.Rate)
}

// app is the fully wired service shared by every command.
type app struct {
	cfg     *config.Config
	store   kv.Store
	player  audio.Player
	speech  *orchestrator.Orchestrator
	board   *board.Board
	offline *offline.Backend
}

// buildApp wires storage, catalog, speech backends, translation and the
// board from cfg. An unavailable backend is logged and left out; speech
// then falls back to whichever backend remains.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Storage.Path == "" {
		a.store = kv.NewMemory()
	} else {
		store, err := kv.NewSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
		a.store = store
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		a.store.Close()
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var off, nat tts.Backend
	if cfg.TTS.Offline.Enabled {
		player, err := newPlayer()
		if err != nil {
			slog.Warn("audio output unavailable, offline voice disabled", "error", err)
		} else {
			a.player = player
			a.offline = offline.New(player, offline.Config{
				Languages:  cfg.TTS.Offline.Languages,
				SampleRate: cfg.TTS.Offline.SampleRate,
			})
			off = a.offline
		}
	}
	if cfg.TTS.Native.Enabled {
		engine, err := findEngine(cfg.TTS.Native)
		if err != nil {
			slog.Warn("platform speech engine unavailable", "engine", cfg.TTS.Native.Engine, "error", err)
		} else {
			nat = native.New(engine)
		}
	}

	a.speech = orchestrator.New(ctx, a.store, off, nat, orchestrator.Config{
		DefaultLanguage: cfg.TTS.DefaultLanguage,
		MaxUtterance:    cfg.TTS.MaxUtterance,
		Volume:          cfg.TTS.Volume,
	})

	httpClient := &http.Client{}
	translator := translate.New(a.store, cfg.Translate.Timeout, translate.Order(cfg.Translate.Provider,
		google.New(cfg.Translate.Google, httpClient),
		deepl.New(cfg.Translate.DeepL, httpClient),
	)...)

	a.board = board.New(
		cat,
		a.speech,
		history.New(a.store, cfg.History.MaxEntries),
		suggest.New(a.store),
		translator,
		board.Config{DefaultLanguage: cfg.TTS.DefaultLanguage, SuggestLimit: cfg.Suggest.Limit},
	)
	return a, nil
}

// initOffline readies the offline voice. Until it returns, speech goes to
// the native engine.
func (a *app) initOffline(ctx context.Context) {
	if a.offline == nil {
		return
	}
	if err := a.offline.Init(ctx); err != nil {
		slog.Error("offline voice failed to initialise", "error", err)
	}
}

func (a *app) service() *transport.Service {
	return &transport.Service{
		Board:     a.board,
		Speech:    a.speech,
		Favorites: favorites.New(a.store),
		Version:   Version,
	}
}

// waitIdle blocks until the current utterance ends or ctx is done, in which
// case speech is stopped.
func (a *app) waitIdle(ctx context.Context, events <-chan orchestrator.Event) {
	for a.speech.State() != orchestrator.StateIdle {
		select {
		case <-ctx.Done():
			_ = a.speech.Stop(context.WithoutCancel(ctx))
			return
		case _, ok := <-events:
			if !ok {
				return
			}
		}
	}
}

func (a *app) Close() error {
	errs := []error{a.speech.Close()}
	if a.player != nil {
		errs = append(errs, a.player.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}
