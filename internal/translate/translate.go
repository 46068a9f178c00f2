// Package translate turns free text from one language into another through
// remote providers, remembering every successful translation.
//
// A Cache never fails: when no provider produces a result the original text
// is returned unchanged, so callers can always speak something.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nadzzz/talkboard/internal/kv"
)

var (
	// ErrNotConfigured is returned by a provider that has no credentials.
	ErrNotConfigured = errors.New("translate: provider not configured")
	// ErrUnsupportedLanguage is returned when a provider cannot target a language.
	ErrUnsupportedLanguage = errors.New("translate: unsupported language")
	// ErrEmptyResult is returned when a provider answered without a translation.
	ErrEmptyResult = errors.New("translate: empty result")
)

const keyPrefix = "translation:"

// Provider is a remote translation service.
type Provider interface {
	// Name returns the provider identifier (e.g., "google", "deepl").
	Name() string

	// Translate converts text from src to dst. Languages are 2-letter codes.
	Translate(ctx context.Context, text, src, dst string) (string, error)
}

// Cache tries providers in order and stores the first result in kv.
type Cache struct {
	store     kv.Store
	providers []Provider
	timeout   time.Duration
	group     singleflight.Group
}

// New creates a cache. timeout bounds each provider call; 0 means only the
// caller's context applies.
func New(store kv.Store, timeout time.Duration, providers ...Provider) *Cache {
	return &Cache{store: store, providers: providers, timeout: timeout}
}

// Order returns providers with the one named first moved to the front.
// Names match case-insensitively. The relative order of the others is kept.
func Order(first string, providers ...Provider) []Provider {
	first = strings.TrimSpace(first)
	out := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil && strings.EqualFold(p.Name(), first) {
			out = append(out, p)
		}
	}
	for _, p := range providers {
		if p != nil && !strings.EqualFold(p.Name(), first) {
			out = append(out, p)
		}
	}
	return out
}

// Key is the kv key for a cached translation.
func Key(src, dst, text string) string {
	return keyPrefix + src + ":" + dst + ":" + text
}

// Providers returns the provider names in the order they are tried.
func (c *Cache) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Translate returns text in dst. Blank text and src == dst are returned as
// is. Concurrent requests for the same key share one provider round trip.
func (c *Cache) Translate(ctx context.Context, text, src, dst string) string {
	src = strings.ToLower(strings.TrimSpace(src))
	dst = strings.ToLower(strings.TrimSpace(dst))
	if strings.TrimSpace(text) == "" || src == dst {
		return text
	}

	key := Key(src, dst, text)
	v, _, _ := c.group.Do(key, func() (any, error) {
		return c.lookup(ctx, key, text, src, dst), nil
	})
	return v.(string)
}

func (c *Cache) lookup(ctx context.Context, key, text, src, dst string) string {
	logger := slog.With("src", src, "dst", dst)

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Warn("translation cache read failed", "error", err)
	}
	if ok && cached != "" {
		logger.Debug("translation cache hit")
		return cached
	}

	for _, p := range c.providers {
		out, err := c.call(ctx, p, text, src, dst)
		if err != nil {
			if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrUnsupportedLanguage) {
				logger.Debug("translation provider skipped", "provider", p.Name(), "reason", err)
			} else {
				logger.Warn("translation provider failed", "provider", p.Name(), "error", err)
			}
			continue
		}

		if err := c.store.Set(ctx, key, out); err != nil {
			logger.Warn("translation cache write failed", "error", err)
		}
		logger.Debug("translated", "provider", p.Name(), "text_length", len(text))
		return out
	}

	logger.Info("no translation available, keeping original text")
	return text
}

// call runs one provider, turning panics and empty answers into errors.
func (c *Cache) call(ctx context.Context, p Provider, text, src, dst string) (out string, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", p.Name(), r)
		}
	}()

	out, err = p.Translate(ctx, text, src, dst)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyResult
	}
	return out, nil
}
