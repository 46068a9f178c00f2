package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nadzzz/talkboard/internal/config"
	"github.com/nadzzz/talkboard/internal/translate"
)

func TestTranslate(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method %s", r.Method)
		}
		if k := r.URL.Query().Get("key"); k != "secret" {
			t.Errorf("key %q", k)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"Je veux boire"}]}}`))
	}))
	defer srv.Close()

	c := New(config.GoogleConfig{APIKey: "secret", Endpoint: srv.URL}, srv.Client())
	out, err := c.Translate(context.Background(), "I want to drink", "en", "es")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "Je veux boire" {
		t.Errorf("got %q", out)
	}
	want := request{Q: "I want to drink", Source: "en", Target: "en", Format: "text"}
	if got != want {
		t.Errorf("request %+v, want %+v", got, want)
	}
}

func TestTranslateErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := New(config.GoogleConfig{}, nil).Translate(ctx, "x", "fr", "en"); !errors.Is(err, translate.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusForbidden, `{"error":{"message":"bad key"}}`},
		{"no translations", http.StatusOK, `{"data":{"translations":[]}}`},
		{"garbage", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(config.GoogleConfig{APIKey: "k", Endpoint: srv.URL}, srv.Client())
			if _, err := c.Translate(ctx, "bonjour", "fr", "en"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	for in, want := range map[string]string{"fr": "fr", "mg": "mg", "ar": "ar", "en": "en", "es": "en", "": "en"} {
		if got := language(in); got != want {
			t.Errorf("language(%q) = %q, want %q", in, got, want)
		}
	}
}
