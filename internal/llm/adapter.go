package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// heartbeatTimeout bounds the probe request cloud backends answer instead of
// a health endpoint.
const heartbeatTimeout = 5 * time.Second

// langchainProvider completes prompts through a langchaingo llms.Model.
type langchainProvider struct {
	name   string
	model  llms.Model
	dflt   string // model used when Options.Model is empty
	logger *slog.Logger
}

func (p *langchainProvider) Complete(ctx context.Context, messages []Message, opts *Options) (*Completion, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%s: no messages to send", p.name)
	}
	p.logger.Debug("sending completion request", "provider", p.name, "messages", len(messages))

	resp, err := p.model.GenerateContent(ctx, toContent(messages), p.callOptions(opts)...)
	if err != nil {
		p.logger.Error("completion request failed", "provider", p.name, "error", err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrContextCanceled, err)
		}
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, fmt.Errorf("%w: %s returned no choices", ErrInvalidResponse, p.name)
	}

	return p.completion(resp.Choices[0]), nil
}

func (p *langchainProvider) Heartbeat(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, heartbeatTimeout)
	defer cancel()

	if _, err := p.Complete(ctx, []Message{{Role: RoleUser, Content: "ping"}}, &Options{MaxTokens: 1}); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return nil
}

func (p *langchainProvider) callOptions(opts *Options) []llms.CallOption {
	if opts == nil {
		opts = &Options{}
	}
	model := opts.Model
	if model == "" {
		model = p.dflt
	}

	out := []llms.CallOption{
		llms.WithModel(model),
		llms.WithTemperature(float64(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		out = append(out, llms.WithMaxTokens(opts.MaxTokens))
	}
	if len(opts.Stop) > 0 {
		out = append(out, llms.WithStopWords(opts.Stop))
	}
	if opts.Seed != 0 {
		out = append(out, llms.WithSeed(opts.Seed))
	}
	return out
}

// completion maps a choice to a Completion. Token counts live in
// GenerationInfo under backend-specific keys: OpenAI reports PromptTokens
// and CompletionTokens, Anthropic InputTokens and OutputTokens.
func (p *langchainProvider) completion(choice *llms.ContentChoice) *Completion {
	info := choice.GenerationInfo
	model, _ := info["Model"].(string)
	if model == "" {
		model = p.dflt
	}
	return &Completion{
		Text:         choice.Content,
		Model:        model,
		PromptTokens: intInfo(info, "PromptTokens", "InputTokens"),
		OutputTokens: intInfo(info, "CompletionTokens", "OutputTokens"),
		StopReason:   choice.StopReason,
	}
}

func toContent(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		role := llms.ChatMessageTypeGeneric
		switch msg.Role {
		case "system":
			role = llms.ChatMessageTypeSystem
		case RoleUser:
			role = llms.ChatMessageTypeHuman
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		out[i] = llms.TextParts(role, msg.Content)
	}
	return out
}

// intInfo returns the first of keys present in info as an int.
func intInfo(info map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := info[key].(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}
