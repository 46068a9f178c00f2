// Package google implements translate.Provider with the Cloud Translation v2
// REST API.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/nadzzz/talkboard/internal/config"
	"github.com/nadzzz/talkboard/internal/translate"
)

const defaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

// Client calls the Google translation endpoint.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// New creates a client from config. A nil httpClient uses a fresh default.
func New(cfg config.GoogleConfig, httpClient *http.Client) *Client {
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
func (c *Client) Name() string { return "google" }

// Translate sends text to the v2 API.
func (c *Client) Translate(ctx context.Context, text, src, dst string) (string, error) {
	if c.apiKey == "" {
		return "", translate.ErrNotConfigured
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	body, err := json.Marshal(request{
		Q:      text,
		Source: language(src),
		Target: language(dst),
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("translate failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Data.Translations) == 0 || result.Data.Translations[0].TranslatedText == "" {
		return "", translate.ErrEmptyResult
	}
	return result.Data.Translations[0].TranslatedText, nil
}

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type response struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// language maps a board language to a Google code. Unknown languages are
// sent as English.
func language(lang string) string {
	switch lang {
	case "fr", "en", "ar", "mg":
		return lang
	default:
		return "en"
	}
}
