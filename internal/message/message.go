// Package message defines the request and response bodies shared by the
// talkboard transports.
package message

import (
	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/history"
	"github.com/nadzzz/talkboard/internal/orchestrator"
	"github.com/nadzzz/talkboard/internal/phrase"
	"github.com/nadzzz/talkboard/internal/tts"
)

// SpeakRequest asks the board to say free text.
type SpeakRequest struct {
	// Text is what to say. Blank text is ignored.
	Text string `json:"text" example:"Je veux de l'eau"`

	// Lang is the language to speak in (ISO-639-1). Defaults to the board language.
	Lang string `json:"lang,omitempty" example:"fr"`

	// From is the language Text is written in. When it differs from Lang the
	// text is translated first.
	From string `json:"from,omitempty" example:"en"`
}

// SpeakResult reports what was actually spoken.
type SpeakResult struct {
	// Spoken is false when the input was empty and nothing happened.
	Spoken bool `json:"spoken"`

	// Entry is the history record of the utterance.
	Entry *history.Entry `json:"entry,omitempty"`
}

// NewSpeakResult wraps a board result. A zero entry means nothing was said.
func NewSpeakResult(e history.Entry) SpeakResult {
	if e.ID == "" {
		return SpeakResult{}
	}
	return SpeakResult{Spoken: true, Entry: &e}
}

// AddItemRequest appends a pictogram to the phrase.
type AddItemRequest struct {
	ID   string `json:"id" example:"15"`
	Lang string `json:"lang,omitempty" example:"mg"`
}

// Phrase is the phrase being composed.
type Phrase struct {
	Items []phrase.Item `json:"items"`
	Text  string        `json:"text"`
}

// PhraseUpdate is returned after the phrase changes.
type PhraseUpdate struct {
	Phrase      Phrase              `json:"phrase"`
	Suggestions []catalog.Pictogram `json:"suggestions"`
}

// ListenRequest speaks the phrase.
type ListenRequest struct {
	Lang string `json:"lang,omitempty" example:"fr"`

	// Clear empties the phrase once it has been spoken.
	Clear bool `json:"clear,omitempty"`
}

// VolumeRequest sets the playback volume, clamped to [0, 1].
type VolumeRequest struct {
	Volume float64 `json:"volume" example:"0.8"`
}

// VoiceRequest sets the preferred voice for a language. An empty VoiceID
// restores automatic selection.
type VoiceRequest struct {
	VoiceID string `json:"voiceId" example:"fr-fr"`
}

// Voices lists the installed voices with the current preferences.
type Voices struct {
	Voices   []tts.Voice       `json:"voices"`
	VoiceMap map[string]string `json:"voiceMap"`
}

// VoicePreferences is the per-language voice map after an update.
type VoicePreferences struct {
	VoiceMap map[string]string `json:"voiceMap"`
}

// TranslateRequest translates free text.
type TranslateRequest struct {
	Text   string `json:"text" example:"I want water"`
	Source string `json:"source" example:"en"`
	Target string `json:"target" example:"fr"`
}

// TranslateResult carries the translation, or the input text when no
// provider could translate it.
type TranslateResult struct {
	Text string `json:"text"`
}

// PictogramRequest adds a custom pictogram to the catalog.
type PictogramRequest struct {
	ID       string            `json:"id" example:"c-1"`
	Label    string            `json:"label" example:"Mon chat"`
	Labels   map[string]string `json:"labels,omitempty"`
	Category string            `json:"category,omitempty" example:"famille"`
	Imagery  string            `json:"imagery,omitempty" example:"🐈"`
}

// Favorites lists the favourite pictograms and typed phrases.
type Favorites struct {
	Pictograms []catalog.Pictogram `json:"pictograms"`
	Phrases    []string            `json:"phrases"`
}

// FavoritePhraseRequest names a typed phrase to mark or unmark.
type FavoritePhraseRequest struct {
	Text string `json:"text" example:"J'ai soif"`
}

// QuickMessageRequest adds a custom quick message.
type QuickMessageRequest struct {
	Label   string `json:"label" example:"Appelle maman"`
	Imagery string `json:"imagery,omitempty" example:"📞"`
}

// Status is the playback state snapshot.
type Status = orchestrator.Status

// Error is the body of every non-2xx JSON response.
type Error struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
