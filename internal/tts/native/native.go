// Package native speaks through the platform speech engine.
package native

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nadzzz/talkboard/internal/tts"
)

// EngineOptions are the engine-level parameters for one utterance.
type EngineOptions struct {
	Voice  string  // engine voice id; empty selects by Locale
	Locale string  // e.g. "fr-FR"
	Volume float64 // [0, 1]
	Rate   float64 // multiplier, 1.0 is the engine's normal rate
	Pitch  float64 // multiplier, 1.0 is the engine's normal pitch
}

// Engine is a platform speech engine.
type Engine interface {
	Name() string
	Speak(ctx context.Context, text string, opts EngineOptions) (*Utterance, error)
	Voices(ctx context.Context) ([]tts.Voice, error)
}

// Backend implements tts.Backend and tts.VoiceLister on top of an Engine.
type Backend struct {
	engine Engine
}

// New wraps engine. A nil engine yields a backend that is never ready.
func New(engine Engine) *Backend {
	return &Backend{engine: engine}
}

func (b *Backend) Name() tts.Kind { return tts.KindNative }

func (b *Backend) Ready() bool { return b.engine != nil }

// CanHandle is true for every language; the platform engine is the generalist.
func (b *Backend) CanHandle(string) bool { return true }

func (b *Backend) Speak(ctx context.Context, text string, opts tts.SpeakOpts) (tts.Handle, error) {
	if b.engine == nil {
		return nil, tts.ErrNotReady
	}

	rate := opts.Rate
	if rate <= 0 {
		rate = tts.DefaultRate(opts.Language)
	}
	pitch := opts.Pitch
	if pitch <= 0 {
		pitch = 1
	}

	eo := EngineOptions{
		Voice:  opts.Voice,
		Locale: tts.SpeechLocale(opts.Language),
		Volume: min(max(opts.Volume, 0), 1),
		Rate:   rate,
		Pitch:  pitch,
	}
	slog.Debug("native speak", "engine", b.engine.Name(), "locale", eo.Locale, "voice", eo.Voice, "rate", eo.Rate)

	u, err := b.engine.Speak(ctx, text, eo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.engine.Name(), err)
	}
	return u, nil
}

// Voices lists the engine's installed voices.
func (b *Backend) Voices(ctx context.Context) ([]tts.Voice, error) {
	if b.engine == nil {
		return nil, tts.ErrNotReady
	}
	voices, err := b.engine.Voices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s voices: %w", b.engine.Name(), err)
	}
	return voices, nil
}

func (b *Backend) Close() error { return nil }

// ErrUnsupportedEngine is returned by NewExec for an unknown engine name.
var ErrUnsupportedEngine = errors.New("native: unsupported engine")
