// Package deepl implements translate.Provider with the DeepL v2 API.
package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nadzzz/talkboard/internal/config"
	"github.com/nadzzz/talkboard/internal/translate"
)

const defaultEndpoint = "https://api-free.deepl.com/v2/translate"

// Client calls the DeepL translate endpoint.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// New creates a client from config. A nil httpClient uses a fresh default.
func New(cfg config.DeepLConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{apiKey: cfg.APIKey, endpoint: endpoint, client: httpClient}
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "deepl" }

// Translate posts text as a form. DeepL has no Malagasy, so mg targets are
// rejected with translate.ErrUnsupportedLanguage; an unknown source is left
// for DeepL to detect.
func (c *Client) Translate(ctx context.Context, text, src, dst string) (string, error) {
	if c.apiKey == "" {
		return "", translate.ErrNotConfigured
	}
	target, ok := language(dst)
	if !ok {
		return "", fmt.Errorf("%w: %q", translate.ErrUnsupportedLanguage, dst)
	}

	form := url.Values{}
	form.Set("text", text)
	if source, ok := language(src); ok {
		form.Set("source_lang", source)
	}
	form.Set("target_lang", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("translate failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Translations) == 0 || result.Translations[0].Text == "" {
		return "", translate.ErrEmptyResult
	}
	return result.Translations[0].Text, nil
}

func language(lang string) (string, bool) {
	switch lang {
	case "fr", "en", "ar":
		return strings.ToUpper(lang), true
	default:
		return "", false
	}
}
