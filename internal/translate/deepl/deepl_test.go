package deepl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nadzzz/talkboard/internal/config"
	"github.com/nadzzz/talkboard/internal/translate"
)

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "DeepL-Auth-Key secret" {
			t.Errorf("authorization %q", auth)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("form: %v", err)
			return
		}
		if r.PostForm.Get("text") != "hello" || r.PostForm.Get("target_lang") != "FR" {
			t.Errorf("form %v", r.PostForm)
		}
		if _, ok := r.PostForm["source_lang"]; ok {
			t.Error("unsupported source should be left for detection")
		}
		w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"bonjour"}]}`))
	}))
	defer srv.Close()

	c := New(config.DeepLConfig{APIKey: "secret", Endpoint: srv.URL}, srv.Client())
	out, err := c.Translate(context.Background(), "hello", "mg", "fr")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "bonjour" {
		t.Errorf("got %q", out)
	}
}

func TestTranslateErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := New(config.DeepLConfig{}, nil).Translate(ctx, "x", "fr", "en"); !errors.Is(err, translate.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "quota exceeded", 456)
	}))
	defer srv.Close()
	c := New(config.DeepLConfig{APIKey: "k", Endpoint: srv.URL}, srv.Client())

	if _, err := c.Translate(ctx, "bonjour", "fr", "mg"); !errors.Is(err, translate.ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if calls != 0 {
		t.Error("unsupported target reached the API")
	}
	if _, err := c.Translate(ctx, "bonjour", "fr", "en"); err == nil {
		t.Error("expected status error")
	}
}
