// Package http implements the HTTP/WebSocket transport for talkboard.
//
// This transport exposes a REST API over the board and the speech
// orchestrator, and a WebSocket endpoint that streams playback events. It is
// what the tablet UI and caregiver tools talk to.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/talkboard/docs"
	"github.com/nadzzz/talkboard/internal/board"
	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/favorites"
	"github.com/nadzzz/talkboard/internal/message"
	"github.com/nadzzz/talkboard/internal/orchestrator"
	"github.com/nadzzz/talkboard/internal/transport"
)

// maxBody bounds JSON request bodies.
const maxBody = 1 << 20

// Transport implements transport.Transport over HTTP and WebSocket.
type Transport struct {
	port   int
	server *http.Server
}

// New creates a new HTTP transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Listen starts the HTTP server. It blocks until the context is cancelled.
func (t *Transport) Listen(ctx context.Context, svc *transport.Service) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           Handler(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}

// Handler returns the routed API for svc.
func Handler(svc *transport.Service) http.Handler {
	a := &api{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /speak", a.handleSpeak)
	mux.HandleFunc("POST /stop", a.handleStop)
	mux.HandleFunc("GET /state", a.handleState)
	mux.HandleFunc("GET /voices", a.handleVoices)
	mux.HandleFunc("PUT /voices/{lang}", a.handleSetVoice)
	mux.HandleFunc("PUT /volume", a.handleSetVolume)

	mux.HandleFunc("GET /phrase", a.handlePhrase)
	mux.HandleFunc("DELETE /phrase", a.handleClearPhrase)
	mux.HandleFunc("POST /phrase/items", a.handleAddItem)
	mux.HandleFunc("DELETE /phrase/items/last", a.handleRemoveLast)
	mux.HandleFunc("POST /phrase/listen", a.handleListen)

	mux.HandleFunc("GET /suggestions", a.handleSuggestions)
	mux.HandleFunc("GET /history", a.handleHistory)
	mux.HandleFunc("DELETE /history", a.handleClearHistory)
	mux.HandleFunc("POST /history/{id}/replay", a.handleReplay)
	mux.HandleFunc("POST /translate", a.handleTranslate)
	mux.HandleFunc("GET /pictograms", a.handlePictograms)
	mux.HandleFunc("POST /pictograms", a.handleAddPictogram)
	mux.HandleFunc("DELETE /pictograms/{id}", a.handleDeletePictogram)
	mux.HandleFunc("GET /pictograms/categories", a.handleCategories)

	mux.HandleFunc("GET /favorites", a.handleFavorites)
	mux.HandleFunc("PUT /favorites/pictograms/{id}", a.handleFavoritePictogram)
	mux.HandleFunc("DELETE /favorites/pictograms/{id}", a.handleFavoritePictogram)
	mux.HandleFunc("POST /favorites/phrases", a.handleFavoritePhrase)
	mux.HandleFunc("DELETE /favorites/phrases", a.handleFavoritePhrase)

	mux.HandleFunc("GET /messages", a.handleMessages)
	mux.HandleFunc("POST /messages", a.handleAddMessage)
	mux.HandleFunc("DELETE /messages/{id}", a.handleDeleteMessage)
	mux.HandleFunc("POST /messages/{id}/speak", a.handleSpeakMessage)

	// GET /ws streams orchestrator events.
	mux.HandleFunc("GET /ws", a.handleEvents)

	// Swagger UI serves the registered OpenAPI doc.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return withRequestID(mux)
}

type ctxKey struct{}

// withRequestID tags every request with an X-Request-ID, reusing the
// caller's when present.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		slog.Debug("http request", "method", r.Method, "path", r.URL.Path, "request_id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type api struct {
	svc *transport.Service
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, message.Error{Error: err.Error(), RequestID: requestID(r.Context())})
}

// fail maps a domain error to a status code and writes it.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, board.ErrUnknownPictogram), errors.Is(err, board.ErrUnknownEntry),
		errors.Is(err, catalog.ErrNotFound), errors.Is(err, favorites.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalid), errors.Is(err, favorites.ErrEmpty):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrBuiltin):
		status = http.StatusConflict
	case errors.Is(err, orchestrator.ErrCouldNotSpeak):
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		slog.Error("request failed", "path", r.URL.Path, "request_id", requestID(r.Context()), "error", err)
	}
	writeError(w, r, status, err)
}
