package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/favorites"
	"github.com/nadzzz/talkboard/internal/message"
)

// handleAddPictogram stores a custom pictogram.
//
// @Summary     Add a custom pictogram
// @Description Custom pictograms are saved to the catalog file. A custom id may be replaced;
// @Description built-in ids cannot.
// @Tags        catalog
// @Accept      json
// @Produce     json
// @Param       request  body      message.PictogramRequest  true  "Pictogram"
// @Success     201  {object}  catalog.Pictogram
// @Failure     400  {object}  message.Error  "Missing id or label"
// @Failure     409  {object}  message.Error  "Id belongs to a built-in pictogram"
// @Router      /pictograms [post]
func (a *api) handleAddPictogram(w http.ResponseWriter, r *http.Request) {
	var req message.PictogramRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	cat := a.svc.Board.Catalog()
	if err := cat.Add(catalog.Pictogram{
		ID:       req.ID,
		Label:    req.Label,
		Labels:   req.Labels,
		Category: req.Category,
		Imagery:  req.Imagery,
	}); err != nil {
		fail(w, r, err)
		return
	}
	p, _ := cat.Get(req.ID)
	writeJSON(w, http.StatusCreated, p)
}

// handleDeletePictogram removes a custom pictogram.
//
// @Summary     Delete a custom pictogram
// @Tags        catalog
// @Param       id   path  string  true  "Pictogram id"
// @Success     204
// @Failure     404  {object}  message.Error  "Unknown pictogram"
// @Failure     409  {object}  message.Error  "Built-in pictograms cannot be deleted"
// @Router      /pictograms/{id} [delete]
func (a *api) handleDeletePictogram(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.svc.Board.Catalog().Delete(id); err != nil {
		fail(w, r, err)
		return
	}
	if err := a.svc.Favorites.SetPictogram(r.Context(), id, false); err != nil {
		slog.Warn("deleted pictogram left in favorites", "id", id, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCategories lists the catalog categories.
//
// @Summary     Pictogram categories
// @Tags        catalog
// @Produce     json
// @Success     200  {array}  string
// @Router      /pictograms/categories [get]
func (a *api) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Board.Catalog().Categories())
}

// handleFavorites lists favourite pictograms and phrases.
//
// @Summary     Favorites
// @Tags        favorites
// @Produce     json
// @Success     200  {object}  message.Favorites
// @Router      /favorites [get]
func (a *api) handleFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.favorites(r))
}

func (a *api) favorites(r *http.Request) message.Favorites {
	ctx := r.Context()
	out := message.Favorites{Pictograms: []catalog.Pictogram{}, Phrases: []string{}}
	cat := a.svc.Board.Catalog()
	for _, id := range a.svc.Favorites.Pictograms(ctx) {
		if p, ok := cat.Get(id); ok {
			out.Pictograms = append(out.Pictograms, p)
		}
	}
	out.Phrases = append(out.Phrases, a.svc.Favorites.Phrases(ctx)...)
	return out
}

// handleFavoritePictogram marks (PUT) or unmarks (DELETE) a favourite pictogram.
//
// @Summary     Mark or unmark a favorite pictogram
// @Tags        favorites
// @Produce     json
// @Param       id   path      string  true  "Pictogram id"
// @Success     200  {object}  message.Favorites
// @Failure     404  {object}  message.Error  "Unknown pictogram"
// @Router      /favorites/pictograms/{id} [put]
// @Router      /favorites/pictograms/{id} [delete]
func (a *api) handleFavoritePictogram(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	favorite := r.Method == http.MethodPut
	if _, ok := a.svc.Board.Catalog().Get(id); favorite && !ok {
		fail(w, r, fmt.Errorf("%w: %q", catalog.ErrNotFound, id))
		return
	}
	if err := a.svc.Favorites.SetPictogram(r.Context(), id, favorite); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.favorites(r))
}

// handleFavoritePhrase marks (POST) or unmarks (DELETE) a favourite typed phrase.
//
// @Summary     Mark or unmark a favorite phrase
// @Tags        favorites
// @Accept      json
// @Produce     json
// @Param       request  body      message.FavoritePhraseRequest  true  "Phrase"
// @Success     200  {object}  message.Favorites
// @Failure     400  {object}  message.Error  "Blank phrase"
// @Router      /favorites/phrases [post]
// @Router      /favorites/phrases [delete]
func (a *api) handleFavoritePhrase(w http.ResponseWriter, r *http.Request) {
	var req message.FavoritePhraseRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if err := a.svc.Favorites.SetPhrase(r.Context(), req.Text, r.Method == http.MethodPost); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.favorites(r))
}

// handleMessages lists the custom quick messages.
//
// @Summary     Quick messages
// @Tags        messages
// @Produce     json
// @Success     200  {array}  favorites.Message
// @Router      /messages [get]
func (a *api) handleMessages(w http.ResponseWriter, r *http.Request) {
	msgs := a.svc.Favorites.Messages(r.Context())
	if msgs == nil {
		msgs = []favorites.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// handleAddMessage stores a custom quick message.
//
// @Summary     Add a quick message
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       request  body      message.QuickMessageRequest  true  "Message"
// @Success     201  {object}  favorites.Message
// @Failure     400  {object}  message.Error  "Blank label"
// @Router      /messages [post]
func (a *api) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	var req message.QuickMessageRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	m, err := a.svc.Favorites.AddMessage(r.Context(), req.Label, req.Imagery)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// handleDeleteMessage removes a quick message.
//
// @Summary     Delete a quick message
// @Tags        messages
// @Param       id   path  string  true  "Message id"
// @Success     204
// @Failure     404  {object}  message.Error  "Unknown message"
// @Router      /messages/{id} [delete]
func (a *api) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Favorites.DeleteMessage(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSpeakMessage says a quick message.
//
// @Summary     Speak a quick message
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       id       path      string                 true   "Message id"
// @Param       request  body      message.ListenRequest  false  "Language"
// @Success     200  {object}  message.SpeakResult
// @Failure     404  {object}  message.Error  "Unknown message"
// @Failure     503  {object}  message.Error  "No speech backend could speak"
// @Router      /messages/{id}/speak [post]
func (a *api) handleSpeakMessage(w http.ResponseWriter, r *http.Request) {
	var req message.ListenRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	id := r.PathValue("id")
	m, ok := a.svc.Favorites.Message(r.Context(), id)
	if !ok {
		fail(w, r, fmt.Errorf("%w: %q", favorites.ErrNotFound, id))
		return
	}
	entry, err := a.svc.Board.SayText(r.Context(), m.Label, req.Lang, req.Lang)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSpeakResult(entry))
}
