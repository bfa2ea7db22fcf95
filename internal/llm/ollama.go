package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaConfig configures an Ollama-hosted model.
type OllamaConfig struct {
	Host        string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Ollama is a Model served by an Ollama daemon.
type Ollama struct {
	client *api.Client
	cfg    OllamaConfig
}

// NewOllama creates a client for the daemon at cfg.Host.
func NewOllama(cfg OllamaConfig, httpClient *http.Client) (*Ollama, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Ollama{client: api.NewClient(base, httpClient), cfg: cfg}, nil
}

// Complete sends the prompt and waits for the whole response.
func (o *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  o.cfg.Model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": o.cfg.Temperature,
		},
	}
	if o.cfg.MaxTokens > 0 {
		req.Options["num_predict"] = o.cfg.MaxTokens
	}

	var b strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return b.String(), nil
}

// ModelName returns the configured model name.
func (o *Ollama) ModelName() string {
	return o.cfg.Model
}

var _ Model = (*Ollama)(nil)
