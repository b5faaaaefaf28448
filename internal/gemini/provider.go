package gemini

import (
	"strings"
	"sync"
)

// Provider holds the client for the current API key. It is built once at
// startup and rebuilt whenever the key changes.
type Provider struct {
	mu     sync.RWMutex
	cfg    Config
	client *Client
}

// NewProvider creates a provider. cfg.APIKey, if set, is used immediately.
func NewProvider(cfg Config) *Provider {
	p := &Provider{cfg: cfg}
	if strings.TrimSpace(cfg.APIKey) != "" {
		_ = p.Set(cfg.APIKey)
	}
	return p
}

// Set replaces the client with one using apiKey. An empty key clears it.
func (p *Provider) Set(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		p.Clear()
		return nil
	}
	cfg := p.cfg
	cfg.APIKey = apiKey
	client, err := NewClient(cfg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.client = client
	p.mu.Unlock()
	return nil
}

func (p *Provider) Clear() {
	p.mu.Lock()
	p.client = nil
	p.mu.Unlock()
}

// Current returns the active client or ErrMissingCredential.
func (p *Provider) Current() (*Client, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.client == nil {
		return nil, ErrMissingCredential
	}
	return p.client, nil
}

func (p *Provider) Configured() bool {
	_, err := p.Current()
	return err == nil
}
