// Package gemini calls the Gemini generateContent API for verse search,
// exegesis, chapter overviews and per-verse chat.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mrlokans/aitafsir/internal/entities"
)

var (
	// ErrAIRequestFailed covers transport errors, provider errors and
	// responses that do not match the requested schema.
	ErrAIRequestFailed = errors.New("ai request failed")
	// ErrMissingCredential means no API key has been supplied.
	ErrMissingCredential = errors.New("api key missing")
	// ErrInvalidCredential means the provider rejected the API key.
	ErrInvalidCredential = errors.New("api key rejected")
	// ErrInvalidInput is returned before any request is made.
	ErrInvalidInput = errors.New("invalid ai request")
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetLogger(disableLogger{}).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled)
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		http:   httpClient,
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  cfg.Model,
	}, nil
}

// Search maps a natural-language query to at most five verse references.
func (c *Client) Search(ctx context.Context, query string, lang entities.Language) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}

	var results []SearchResult
	if err := c.generateJSON(ctx, searchPrompt(query, lang), searchSchema, &results); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	for i, r := range results {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("search: %w: result %d: %w", ErrAIRequestFailed, i, err)
		}
	}
	return results, nil
}

// Tafsir generates structured commentary for one verse.
func (c *Client) Tafsir(ctx context.Context, verse entities.Verse, lang entities.Language) (*Tafsir, error) {
	var out Tafsir
	if err := c.generateJSON(ctx, tafsirPrompt(verse, lang), tafsirSchema, &out); err != nil {
		return nil, fmt.Errorf("tafsir %s: %w", verse.ID, err)
	}
	if err := validate.Struct(out); err != nil {
		return nil, fmt.Errorf("tafsir %s: %w: %w", verse.ID, ErrAIRequestFailed, err)
	}
	return &out, nil
}

// SurahOverview generates an introduction to a chapter.
func (c *Client) SurahOverview(ctx context.Context, surahName string, surahNumber int, lang entities.Language) (*SurahOverview, error) {
	var out SurahOverview
	if err := c.generateJSON(ctx, overviewPrompt(surahName, surahNumber, lang), overviewSchema, &out); err != nil {
		return nil, fmt.Errorf("overview %d: %w", surahNumber, err)
	}
	if err := validate.Struct(out); err != nil {
		return nil, fmt.Errorf("overview %d: %w: %w", surahNumber, ErrAIRequestFailed, err)
	}
	return &out, nil
}

// Chat answers message about verse, with history supplied as prior turns.
func (c *Client) Chat(ctx context.Context, verse entities.Verse, history []ChatMessage, message string, lang entities.Language) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: empty message", ErrInvalidInput)
	}

	contents := make([]content, 0, len(history)+1)
	for i, m := range history {
		if err := validate.Struct(m); err != nil {
			return "", fmt.Errorf("%w: history entry %d: %w", ErrInvalidInput, i, err)
		}
		contents = append(contents, content{Role: m.Role, Parts: []part{{Text: m.Text}}})
	}
	contents = append(contents, content{Role: RoleUser, Parts: []part{{Text: message}}})

	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: chatInstruction(verse, lang)}}},
		Contents:          contents,
	}
	text, err := c.generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat %s: %w", verse.ID, err)
	}
	return text, nil
}

func (c *Client) generateJSON(ctx context.Context, prompt string, s *schema, out any) error {
	req := generateRequest{
		Contents: []content{{Role: RoleUser, Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   s,
		},
	}
	text, err := c.generate(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: response does not match schema: %w", ErrAIRequestFailed, err)
	}
	return nil
}

func (c *Client) generate(ctx context.Context, body generateRequest) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		Post("/models/" + c.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAIRequestFailed, err)
	}

	if resp.IsError() {
		return "", statusError(resp)
	}

	var decoded generateResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrAIRequestFailed, err)
	}
	if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", ErrAIRequestFailed, decoded.PromptFeedback.BlockReason)
	}
	text := strings.TrimSpace(decoded.text())
	if text == "" {
		return "", fmt.Errorf("%w: no response from AI", ErrAIRequestFailed)
	}
	return text, nil
}

func statusError(resp *resty.Response) error {
	var apiErr apiError
	_ = json.Unmarshal(resp.Body(), &apiErr)
	msg := apiErr.Error.Message
	if msg == "" {
		msg = resp.Status()
	}

	code := resp.StatusCode()
	if code == http.StatusUnauthorized || code == http.StatusForbidden || strings.Contains(msg, "API key") {
		return fmt.Errorf("%w: %w: %s", ErrAIRequestFailed, ErrInvalidCredential, msg)
	}
	return fmt.Errorf("%w: status %d: %s", ErrAIRequestFailed, code, msg)
}

type disableLogger struct{}

func (disableLogger) Errorf(string, ...interface{}) {}
func (disableLogger) Warnf(string, ...interface{})  {}
func (disableLogger) Debugf(string, ...interface{}) {}
