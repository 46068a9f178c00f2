// Package offline implements the on-device synthetic voice.
//
// The pipeline is G2P, then a parametric tone, then 16-bit PCM wrapped as
// WAV, then the audio player. No network or model files are involved, so it
// is the voice used for languages the platform engine does not cover.
package offline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/nadzzz/talkboard/internal/audio"
	"github.com/nadzzz/talkboard/internal/tts"
)

// DefaultSampleRate is used when Config.SampleRate is zero.
const DefaultSampleRate = 22050

// Config configures the offline backend.
type Config struct {
	Languages  []string // languages this voice is preferred for
	SampleRate int
}

// Backend implements tts.Backend.
type Backend struct {
	player     audio.Player
	sampleRate int
	languages  map[string]struct{}
	ready      atomic.Bool
}

// New creates an offline backend that plays through player.
// It is not ready until Init returns.
func New(player audio.Player, cfg Config) *Backend {
	langs := make(map[string]struct{}, len(cfg.Languages))
	for _, l := range cfg.Languages {
		langs[tts.NormalizeLang(l)] = struct{}{}
	}
	sr := cfg.SampleRate
	if sr <= 0 {
		sr = DefaultSampleRate
	}
	return &Backend{player: player, sampleRate: sr, languages: langs}
}

// Init prepares the synthesizer. It may run in its own goroutine.
func (b *Backend) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.ready.Store(true)
	slog.Info("offline tts ready", "sample_rate", b.sampleRate, "languages", len(b.languages))
	return nil
}

func (b *Backend) Name() tts.Kind { return tts.KindOffline }

func (b *Backend) Ready() bool { return b.ready.Load() }

func (b *Backend) CanHandle(lang string) bool {
	_, ok := b.languages[tts.NormalizeLang(lang)]
	return ok
}

// Speak renders text and starts playback. Voice and Rate are ignored.
func (b *Backend) Speak(ctx context.Context, text string, opts tts.SpeakOpts) (tts.Handle, error) {
	if !b.Ready() {
		return nil, tts.ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phones := G2P(text)
	pcm := synthesize(text, phones, b.sampleRate, opts.Volume, opts.Pitch)
	slog.Debug("offline synthesize", "text_length", len(text), "phones", phones, "samples", len(pcm))

	sound, err := b.player.Load(audio.EncodeWAV(pcm, b.sampleRate))
	if err != nil {
		return nil, fmt.Errorf("loading offline audio: %w", err)
	}
	if err := sound.Play(); err != nil {
		_ = sound.Unload()
		return nil, fmt.Errorf("playing offline audio: %w", err)
	}
	return &handle{sound: sound}, nil
}

// Close marks the backend unusable. The player is owned by the caller.
func (b *Backend) Close() error {
	b.ready.Store(false)
	return nil
}

type handle struct {
	sound audio.Sound
	once  sync.Once
	err   error
}

func (h *handle) Done() <-chan struct{} { return h.sound.Done() }

func (h *handle) Err() error { return nil }

func (h *handle) Stop(context.Context) error {
	h.once.Do(func() { h.err = h.sound.Unload() })
	return h.err
}
