// Package tts defines the speech backends the orchestrator chooses between.
//
// A backend turns text into sound on the local device and hands back a
// Handle for the utterance in flight. Two kinds exist: the on-device offline
// voice and the native platform engine.
package tts

import (
	"context"
	"errors"
	"strings"
)

// Kind identifies a backend.
type Kind string

const (
	KindOffline Kind = "offline"
	KindNative  Kind = "native"
)

var (
	// ErrNotReady is returned by Speak before the backend has initialised.
	ErrNotReady = errors.New("tts: backend not ready")

	// ErrNoVoice is returned when a backend has no voice for the language.
	ErrNoVoice = errors.New("tts: no voice available")
)

// SpeakOpts controls one utterance.
type SpeakOpts struct {
	// Language is the ISO-639-1 code (e.g., "fr", "mg").
	Language string

	// Voice is a backend voice id. Empty means the engine default.
	Voice string

	// Volume is in [0, 1].
	Volume float64

	// Rate and Pitch are multipliers where 1.0 is the engine's normal speed.
	Rate  float64
	Pitch float64
}

// Voice describes a voice a backend can speak with.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"` // BCP-47 tag or "mul"; may be empty
	Quality  string `json:"quality,omitempty"`
}

// Handle is one utterance in flight.
type Handle interface {
	// Done is closed when playback finishes, fails or is stopped.
	Done() <-chan struct{}

	// Err reports why playback ended. It is nil after a normal finish or a
	// Stop, and only meaningful once Done is closed.
	Err() error

	// Stop halts playback and releases the underlying resource. It is
	// idempotent.
	Stop(ctx context.Context) error
}

// Backend synthesizes and plays text.
type Backend interface {
	Name() Kind

	// Ready reports whether Speak can be called.
	Ready() bool

	// CanHandle reports whether the backend specialises in lang.
	CanHandle(lang string) bool

	// Speak starts playback and returns once audio is playing.
	Speak(ctx context.Context, text string, opts SpeakOpts) (Handle, error)

	Close() error
}

// VoiceLister is implemented by backends that expose a voice catalog.
type VoiceLister interface {
	Voices(ctx context.Context) ([]Voice, error)
}

// NormalizeLang reduces a tag such as "fr-FR" or "FR" to its lowercase
// two-letter language code.
func NormalizeLang(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	if len(tag) > 2 {
		tag = tag[:2]
	}
	return tag
}

var speechLocales = map[string]string{
	"fr": "fr-FR",
	"en": "en-US",
	"ar": "ar-SA",
	"es": "es-ES",
	"mg": "mg",
}

// SpeechLocale maps a language code to the locale the platform engines
// expect. Unknown languages get en-US.
func SpeechLocale(lang string) string {
	if l, ok := speechLocales[NormalizeLang(lang)]; ok {
		return l
	}
	return "en-US"
}

// DefaultRate is the speaking-rate multiplier used per language.
func DefaultRate(lang string) float64 {
	if NormalizeLang(lang) == "mg" {
		return 0.7
	}
	return 0.8
}
