package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/message"
)

// handleSpeak says free text.
//
// @Summary     Speak free text
// @Description Stops any current playback and speaks the text. When "from" differs from "lang"
// @Description the text is translated first; if translation is unavailable the original text is spoken.
// @Tags        speech
// @Accept      json
// @Produce     json
// @Param       request  body      message.SpeakRequest  true  "Text to speak"
// @Success     200  {object}  message.SpeakResult
// @Failure     400  {object}  message.Error  "Invalid request body"
// @Failure     503  {object}  message.Error  "No speech backend could speak"
// @Router      /speak [post]
func (a *api) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req message.SpeakRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	from := req.From
	if from == "" {
		from = req.Lang
	}
	entry, err := a.svc.Board.SayText(r.Context(), req.Text, from, req.Lang)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSpeakResult(entry))
}

// handleStop halts playback.
//
// @Summary     Stop speaking
// @Tags        speech
// @Produce     json
// @Success     200  {object}  message.Status
// @Router      /stop [post]
func (a *api) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Speech.Stop(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.svc.Speech.Status())
}

// handleState reports playback state and preferences.
//
// @Summary     Playback state
// @Tags        speech
// @Produce     json
// @Success     200  {object}  message.Status
// @Router      /state [get]
func (a *api) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Speech.Status())
}

// handleVoices lists installed voices.
//
// @Summary     List voices
// @Tags        voices
// @Produce     json
// @Success     200  {object}  message.Voices
// @Failure     502  {object}  message.Error  "Speech engine could not list voices"
// @Router      /voices [get]
func (a *api) handleVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := a.svc.Speech.ListVoices(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, message.Voices{Voices: voices, VoiceMap: a.svc.Speech.VoiceMap()})
}

// handleSetVoice stores the preferred voice for a language.
//
// @Summary     Set the voice for a language
// @Description An empty voiceId restores automatic voice selection.
// @Tags        voices
// @Accept      json
// @Produce     json
// @Param       lang     path      string                true  "Language or locale (e.g. fr, fr-FR)"
// @Param       request  body      message.VoiceRequest  true  "Voice"
// @Success     200  {object}  message.VoicePreferences
// @Failure     400  {object}  message.Error
// @Router      /voices/{lang} [put]
func (a *api) handleSetVoice(w http.ResponseWriter, r *http.Request) {
	var req message.VoiceRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if err := a.svc.Speech.SetVoiceForLocale(r.Context(), r.PathValue("lang"), req.VoiceID); err != nil {
		slog.Warn("voice preference not persisted", "lang", r.PathValue("lang"), "error", err)
	}
	writeJSON(w, http.StatusOK, message.VoicePreferences{VoiceMap: a.svc.Speech.VoiceMap()})
}

// handleSetVolume sets the playback volume.
//
// @Summary     Set volume
// @Description The volume is clamped to [0, 1] and applies from the next utterance.
// @Tags        speech
// @Accept      json
// @Produce     json
// @Param       request  body      message.VolumeRequest  true  "Volume"
// @Success     200  {object}  message.Status
// @Failure     400  {object}  message.Error
// @Router      /volume [put]
func (a *api) handleSetVolume(w http.ResponseWriter, r *http.Request) {
	var req message.VolumeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if err := a.svc.Speech.SetVolume(r.Context(), req.Volume); err != nil {
		slog.Warn("volume not persisted", "error", err)
	}
	writeJSON(w, http.StatusOK, a.svc.Speech.Status())
}

func (a *api) phraseUpdate(r *http.Request) message.PhraseUpdate {
	suggestions := a.svc.Board.Suggestions(r.Context())
	if suggestions == nil {
		suggestions = []catalog.Pictogram{}
	}
	return message.PhraseUpdate{
		Phrase:      message.Phrase{Items: a.svc.Board.Phrase(), Text: a.svc.Board.Text()},
		Suggestions: suggestions,
	}
}

// handlePhrase returns the phrase being composed.
//
// @Summary     Current phrase
// @Tags        phrase
// @Produce     json
// @Success     200  {object}  message.PhraseUpdate
// @Router      /phrase [get]
func (a *api) handlePhrase(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.phraseUpdate(r))
}

// handleClearPhrase empties the phrase.
//
// @Summary     Clear the phrase
// @Tags        phrase
// @Produce     json
// @Success     200  {object}  message.PhraseUpdate
// @Router      /phrase [delete]
func (a *api) handleClearPhrase(w http.ResponseWriter, r *http.Request) {
	a.svc.Board.Clear()
	writeJSON(w, http.StatusOK, a.phraseUpdate(r))
}

// handleAddItem appends a pictogram.
//
// @Summary     Add a pictogram to the phrase
// @Description The label is captured in the requested language. The response carries the
// @Description suggestions that usually follow the added pictogram.
// @Tags        phrase
// @Accept      json
// @Produce     json
// @Param       request  body      message.AddItemRequest  true  "Pictogram"
// @Success     200  {object}  message.PhraseUpdate
// @Failure     400  {object}  message.Error
// @Failure     404  {object}  message.Error  "Unknown pictogram"
// @Router      /phrase/items [post]
func (a *api) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req message.AddItemRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if _, err := a.svc.Board.Add(r.Context(), req.ID, req.Lang); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.phraseUpdate(r))
}

// handleRemoveLast drops the last pictogram.
//
// @Summary     Remove the last pictogram
// @Tags        phrase
// @Produce     json
// @Success     200  {object}  message.PhraseUpdate
// @Router      /phrase/items/last [delete]
func (a *api) handleRemoveLast(w http.ResponseWriter, r *http.Request) {
	a.svc.Board.RemoveLast()
	writeJSON(w, http.StatusOK, a.phraseUpdate(r))
}

// handleListen speaks the phrase.
//
// @Summary     Speak the phrase
// @Description Speaks the composed phrase. On success the utterance is added to the history and
// @Description the pictogram sequence is learned for suggestions. An empty phrase is a no-op.
// @Tags        phrase
// @Accept      json
// @Produce     json
// @Param       request  body      message.ListenRequest  false  "Options"
// @Success     200  {object}  message.SpeakResult
// @Failure     503  {object}  message.Error  "No speech backend could speak"
// @Router      /phrase/listen [post]
func (a *api) handleListen(w http.ResponseWriter, r *http.Request) {
	var req message.ListenRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	listen := a.svc.Board.Listen
	if req.Clear {
		listen = a.svc.Board.SpeakAndClear
	}
	entry, err := listen(r.Context(), req.Lang)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSpeakResult(entry))
}

// handleSuggestions returns likely next pictograms.
//
// @Summary     Suggestions
// @Description Without "after", suggests what follows the last pictogram of the phrase.
// @Tags        phrase
// @Produce     json
// @Param       after  query     string  false  "Pictogram id to suggest after"
// @Success     200  {array}   catalog.Pictogram
// @Router      /suggestions [get]
func (a *api) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var out []catalog.Pictogram
	if after := strings.TrimSpace(r.URL.Query().Get("after")); after != "" {
		out = a.svc.Board.SuggestAfter(r.Context(), after)
	} else {
		out = a.svc.Board.Suggestions(r.Context())
	}
	if out == nil {
		out = []catalog.Pictogram{}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleHistory lists spoken utterances.
//
// @Summary     History
// @Tags        history
// @Produce     json
// @Success     200  {array}   history.Entry
// @Router      /history [get]
func (a *api) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := a.svc.Board.History(r.Context())
	if entries == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleClearHistory erases the history.
//
// @Summary     Clear history
// @Tags        history
// @Success     204
// @Failure     500  {object}  message.Error
// @Router      /history [delete]
func (a *api) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Board.ClearHistory(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReplay speaks a history entry again.
//
// @Summary     Replay a history entry
// @Tags        history
// @Produce     json
// @Param       id   path      string  true  "History entry id"
// @Success     200  {object}  message.SpeakResult
// @Failure     404  {object}  message.Error  "Unknown entry"
// @Failure     503  {object}  message.Error  "No speech backend could speak"
// @Router      /history/{id}/replay [post]
func (a *api) handleReplay(w http.ResponseWriter, r *http.Request) {
	entry, err := a.svc.Board.Replay(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSpeakResult(entry))
}

// handleTranslate translates free text.
//
// @Summary     Translate text
// @Description Returns the cached or freshly fetched translation. When no provider can translate,
// @Description the original text is returned.
// @Tags        translate
// @Accept      json
// @Produce     json
// @Param       request  body      message.TranslateRequest  true  "Text"
// @Success     200  {object}  message.TranslateResult
// @Failure     400  {object}  message.Error
// @Router      /translate [post]
func (a *api) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req message.TranslateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	out := a.svc.Board.Translate(r.Context(), req.Text, req.Source, req.Target)
	writeJSON(w, http.StatusOK, message.TranslateResult{Text: out})
}

// handlePictograms lists the catalog.
//
// @Summary     Pictograms
// @Tags        catalog
// @Produce     json
// @Param       category  query     string  false  "Only this category"
// @Success     200  {array}   catalog.Pictogram
// @Router      /pictograms [get]
func (a *api) handlePictograms(w http.ResponseWriter, r *http.Request) {
	cat := a.svc.Board.Catalog()
	out := cat.List()
	if c := r.URL.Query().Get("category"); c != "" {
		out = cat.ByCategory(c)
	}
	if out == nil {
		out = []catalog.Pictogram{}
	}
	writeJSON(w, http.StatusOK, out)
}
