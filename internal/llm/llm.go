package llm

import (
	"context"
	"errors"
	"strings"
)

// Message roles used by rendered prompts.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn of a rendered prompt.
type Message struct {
	// Role identifies the message sender: "user" or "assistant"
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// Provider completes a rendered prompt with a language model.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Complete sends the messages and returns the model's continuation.
	Complete(ctx context.Context, messages []Message, opts *Options) (*Completion, error)

	// Heartbeat returns nil if the provider is reachable.
	Heartbeat(ctx context.Context) error
}

// Options tune a single completion. A nil *Options is the same as all zero
// values. Zero fields keep the provider default, except Temperature, which is
// always sent: 0 selects greedy decoding.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int

	// Stop ends generation at the first occurrence of any sequence.
	Stop []string

	// Seed makes sampling reproducible where the backend supports it.
	Seed int
}

// Completion is the model's answer to a prompt.
type Completion struct {
	Text         string
	Model        string
	PromptTokens int
	OutputTokens int

	// StopReason is the backend's reason for ending generation, such as
	// "stop" or "length". Empty when the backend does not report one.
	StopReason string
}

// Truncated reports whether generation hit the token limit. The text of a
// truncated completion usually lacks the later fields.
func (c *Completion) Truncated() bool {
	switch strings.ToLower(c.StopReason) {
	case "length", "max_tokens":
		return true
	}
	return false
}

// Common errors returned by LLM providers.
var (
	ErrProviderUnavailable = errors.New("llm provider is not reachable")
	ErrInvalidResponse     = errors.New("provider returned invalid response")
	ErrContextCanceled     = errors.New("operation was canceled")
	ErrUnknownProvider     = errors.New("unknown llm provider")
)
