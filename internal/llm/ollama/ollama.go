// Package ollama registers the "ollama" llm.Provider, which talks to a local
// or remote Ollama server through its native API client.
//
// Import it for its side effect:
//
//	import _ "github.com/bimmerbailey/fieldprompt/internal/llm/ollama"
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/bimmerbailey/fieldprompt/internal/config"
	"github.com/bimmerbailey/fieldprompt/internal/llm"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "llama3.2"

func init() {
	llm.Register("ollama", func(cfg *config.Config, logger *slog.Logger) (llm.Provider, error) {
		return New(Config{
			Host:    cfg.LLM.Ollama.Host,
			Model:   cfg.LLM.Ollama.Model,
			Timeout: cfg.LLM.Ollama.Timeout,
		}, logger)
	})
}

// Config selects the server and default model.
type Config struct {
	// Host is the API endpoint. Empty means OLLAMA_HOST or
	// http://localhost:11434.
	Host string

	Model string

	// Timeout bounds a whole request; zero means no limit.
	Timeout time.Duration
}

// Provider implements llm.Provider for Ollama.
type Provider struct {
	client *api.Client
	model  string
	logger *slog.Logger
}

// New returns a Provider for cfg.
func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	client, err := newClient(cfg)
	if err != nil {
		logger.Error("failed to create ollama client", "host", cfg.Host, "error", err)
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	logger.Debug("created ollama client", "host", cfg.Host, "model", model)

	return &Provider{client: client, model: model, logger: logger}, nil
}

func newClient(cfg Config) (*api.Client, error) {
	if cfg.Host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", llm.ErrProviderUnavailable, err)
		}
		return client, nil
	}

	u, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host: %w", err)
	}
	return api.NewClient(u, &http.Client{Timeout: cfg.Timeout}), nil
}

// Complete sends one non-streaming chat request.
func (p *Provider) Complete(ctx context.Context, messages []llm.Message, opts *llm.Options) (*llm.Completion, error) {
	if len(messages) == 0 {
		return nil, errors.New("ollama: no messages to send")
	}

	req := p.request(messages, opts)
	p.logger.Debug("sending chat request", "model", req.Model, "messages", len(messages))

	var last api.ChatResponse
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		last = resp
		return nil
	})
	if err != nil {
		p.logger.Error("chat request failed", "model", req.Model, "error", err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", llm.ErrContextCanceled, err)
		}
		return nil, fmt.Errorf("%w: %v", llm.ErrProviderUnavailable, err)
	}

	p.logger.Debug("chat request completed",
		"model", last.Model,
		"prompt_tokens", last.PromptEvalCount,
		"output_tokens", last.EvalCount,
		"done_reason", last.DoneReason)

	return &llm.Completion{
		Text:         last.Message.Content,
		Model:        last.Model,
		PromptTokens: last.PromptEvalCount,
		OutputTokens: last.EvalCount,
		StopReason:   last.DoneReason,
	}, nil
}

// request builds the chat request. Options map onto Ollama's model
// parameters: temperature, num_predict, stop and seed.
func (p *Provider) request(messages []llm.Message, opts *llm.Options) *api.ChatRequest {
	if opts == nil {
		opts = &llm.Options{}
	}

	model := opts.Model
	if model == "" {
		model = p.model
	}

	params := map[string]any{"temperature": opts.Temperature}
	if opts.MaxTokens > 0 {
		params["num_predict"] = opts.MaxTokens
	}
	if len(opts.Stop) > 0 {
		params["stop"] = opts.Stop
	}
	if opts.Seed != 0 {
		params["seed"] = opts.Seed
	}

	msgs := make([]api.Message, len(messages))
	for i, m := range messages {
		msgs[i] = api.Message{Role: m.Role, Content: m.Content}
	}

	stream := false
	return &api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Options:  params,
		Stream:   &stream,
	}
}

// Heartbeat checks if the Ollama server is reachable.
func (p *Provider) Heartbeat(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		p.logger.Error("ollama heartbeat failed", "error", err)
		return fmt.Errorf("%w: %v", llm.ErrProviderUnavailable, err)
	}
	return nil
}
