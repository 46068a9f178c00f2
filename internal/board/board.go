// Package board is the composing session: pictograms are tapped into a
// phrase, the phrase is spoken, and every successful utterance feeds the
// history and the suggestion model.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/history"
	"github.com/nadzzz/talkboard/internal/orchestrator"
	"github.com/nadzzz/talkboard/internal/phrase"
	"github.com/nadzzz/talkboard/internal/suggest"
	"github.com/nadzzz/talkboard/internal/tts"
)

var (
	// ErrUnknownPictogram is returned when adding an id the catalog lacks.
	ErrUnknownPictogram = errors.New("board: unknown pictogram")
	// ErrUnknownEntry is returned when replaying a missing history entry.
	ErrUnknownEntry = errors.New("board: unknown history entry")
)

// Speaker speaks text. *orchestrator.Orchestrator satisfies it.
type Speaker interface {
	Speak(ctx context.Context, text, lang string) error
}

// Translator converts free text. *translate.Cache satisfies it.
type Translator interface {
	Translate(ctx context.Context, text, src, dst string) string
}

// Config holds board settings.
type Config struct {
	DefaultLanguage string
	SuggestLimit    int
}

// Board ties the phrase ledger to speech, history and suggestions.
type Board struct {
	catalog    *catalog.Catalog
	speaker    Speaker
	history    *history.Store
	model      *suggest.Model
	translator Translator // may be nil
	cfg        Config

	ledger phrase.Ledger
}

// New creates a board. translator may be nil, in which case free text is
// never translated.
func New(cat *catalog.Catalog, speaker Speaker, hist *history.Store, model *suggest.Model, translator Translator, cfg Config) *Board {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "fr"
	}
	if cfg.SuggestLimit <= 0 {
		cfg.SuggestLimit = suggest.DefaultLimit
	}
	return &Board{
		catalog:    cat,
		speaker:    speaker,
		history:    hist,
		model:      model,
		translator: translator,
		cfg:        cfg,
	}
}

func (b *Board) lang(lang string) string {
	if l := tts.NormalizeLang(lang); l != "" {
		return l
	}
	return b.cfg.DefaultLanguage
}

// Add appends pictogram id with its label in lang and returns the
// suggestions that follow it.
func (b *Board) Add(ctx context.Context, id, lang string) ([]catalog.Pictogram, error) {
	p, ok := b.catalog.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPictogram, id)
	}
	b.ledger.Append(phrase.Item{ID: p.ID, Label: p.LabelFor(b.lang(lang))})
	return b.SuggestAfter(ctx, p.ID), nil
}

// RemoveLast drops the last pictogram of the phrase.
func (b *Board) RemoveLast() (phrase.Item, bool) {
	return b.ledger.RemoveLast()
}

// Clear empties the phrase.
func (b *Board) Clear() {
	b.ledger.Clear()
}

// Phrase returns the current phrase in order.
func (b *Board) Phrase() []phrase.Item {
	return b.ledger.Items()
}

// Text returns the phrase as it would be spoken.
func (b *Board) Text() string {
	return phrase.Text(b.ledger.Items())
}

// Suggestions returns the likely next pictograms after the last one in the
// phrase, or nil for an empty phrase.
func (b *Board) Suggestions(ctx context.Context) []catalog.Pictogram {
	last, ok := b.ledger.Last()
	if !ok {
		return nil
	}
	return b.SuggestAfter(ctx, last.ID)
}

// SuggestAfter resolves the ranked successors of id against the catalog.
// Successors that are no longer in the catalog are skipped.
func (b *Board) SuggestAfter(ctx context.Context, id string) []catalog.Pictogram {
	ids := b.model.Suggest(ctx, id, b.cfg.SuggestLimit)
	out := make([]catalog.Pictogram, 0, len(ids))
	for _, next := range ids {
		if p, ok := b.catalog.Get(next); ok {
			out = append(out, p)
		}
	}
	return out
}

// Listen speaks the phrase in lang. Only when speaking succeeded is the
// utterance recorded and the pictogram sequence learned. An empty phrase, or
// one superseded before it was heard, returns a zero Entry.
func (b *Board) Listen(ctx context.Context, lang string) (history.Entry, error) {
	entry, _, err := b.listen(ctx, lang)
	return entry, err
}

func (b *Board) listen(ctx context.Context, lang string) (history.Entry, bool, error) {
	items := b.ledger.Items()
	text := phrase.Text(items)
	if text == "" {
		return history.Entry{}, false, nil
	}
	lang = b.lang(lang)
	logger := slog.With("lang", lang, "items", len(items))

	heard, err := b.speak(ctx, text, lang)
	if err != nil {
		return history.Entry{}, false, fmt.Errorf("speaking phrase: %w", err)
	}
	if !heard {
		return history.Entry{}, false, nil
	}

	entry, err := b.history.Record(ctx, text, lang)
	if err != nil {
		logger.Warn("recording history failed", "error", err)
	}
	if err := b.model.Learn(ctx, phrase.IDs(items)); err != nil {
		logger.Warn("learning sequence failed", "error", err)
	}
	logger.Info("phrase spoken", "history_id", entry.ID)
	return entry, true, nil
}

// speak reports whether text actually started playing. Losing to a later
// Speak or a Stop is not an error, but nothing was heard.
func (b *Board) speak(ctx context.Context, text, lang string) (bool, error) {
	err := b.speaker.Speak(ctx, text, lang)
	if errors.Is(err, orchestrator.ErrSuperseded) {
		slog.Debug("speech superseded before playback", "lang", lang)
		return false, nil
	}
	return err == nil, err
}

// SpeakAndClear speaks the phrase and empties it once speech has started.
// On failure, or when superseded, the phrase is kept so it can be retried.
func (b *Board) SpeakAndClear(ctx context.Context, lang string) (history.Entry, error) {
	entry, heard, err := b.listen(ctx, lang)
	if err != nil || !heard {
		return entry, err
	}
	b.ledger.Clear()
	return entry, nil
}

// SayText speaks typed text in dst, translating it from src first when the
// languages differ. The spoken text is recorded in the history.
func (b *Board) SayText(ctx context.Context, text, src, dst string) (history.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return history.Entry{}, nil
	}
	dst = b.lang(dst)
	if src = b.lang(src); src != dst {
		text = b.Translate(ctx, text, src, dst)
	}

	heard, err := b.speak(ctx, text, dst)
	if err != nil {
		return history.Entry{}, fmt.Errorf("speaking text: %w", err)
	}
	if !heard {
		return history.Entry{}, nil
	}
	entry, err := b.history.Record(ctx, text, dst)
	if err != nil {
		slog.Warn("recording history failed", "lang", dst, "error", err)
	}
	return entry, nil
}

// Translate converts text, returning it unchanged without a translator.
func (b *Board) Translate(ctx context.Context, text, src, dst string) string {
	if b.translator == nil {
		return text
	}
	return b.translator.Translate(ctx, text, b.lang(src), b.lang(dst))
}

// Replay speaks a history entry again in its own language. Replays are not
// recorded. A zero Entry means the replay was superseded.
func (b *Board) Replay(ctx context.Context, id string) (history.Entry, error) {
	entry, ok := b.history.Get(ctx, id)
	if !ok {
		return history.Entry{}, fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}
	heard, err := b.speak(ctx, entry.Text, entry.Locale)
	if err != nil {
		return entry, fmt.Errorf("replaying: %w", err)
	}
	if !heard {
		return history.Entry{}, nil
	}
	return entry, nil
}

// History lists spoken utterances, newest first.
func (b *Board) History(ctx context.Context) []history.Entry {
	return b.history.List(ctx)
}

// ClearHistory erases every history entry.
func (b *Board) ClearHistory(ctx context.Context) error {
	return b.history.Clear(ctx)
}

// Catalog returns the pictogram catalog.
func (b *Board) Catalog() *catalog.Catalog {
	return b.catalog
}
