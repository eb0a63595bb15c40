// Package config provides configuration types and helpers for fieldprompt.
package config

import (
	"strings"
	"time"
)

// Config holds the application-wide configuration.
type Config struct {
	Format    string          `mapstructure:"format"`
	Color     string          `mapstructure:"color"`
	Verbose   bool            `mapstructure:"verbose"`
	Debug     bool            `mapstructure:"debug"`
	Template  TemplateConfig  `mapstructure:"template"`
	Redaction RedactionConfig `mapstructure:"redaction"`
	LLM       LLMConfig       `mapstructure:"llm"`
}

// RedactionConfig controls masking of sensitive values in prompts.
type RedactionConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Patterns []string `mapstructure:"patterns"`
}

// TemplateConfig controls how compiled templates render and extract.
type TemplateConfig struct {
	// ShowGuidelines includes the "Follow the following format." block
	ShowGuidelines bool `mapstructure:"show_guidelines"`

	// StripTrailingDashes removes trailing "---" artifacts from extracted values
	StripTrailingDashes bool `mapstructure:"strip_trailing_dashes"`

	// QueryOnly renders just the live query, without instructions or demos
	QueryOnly bool `mapstructure:"query_only"`

	// InputFields names variables always rendered as user turns
	InputFields []string `mapstructure:"input_fields"`
}

// LLMConfig holds configuration for LLM providers.
type LLMConfig struct {
	// Provider selects which LLM to use: "ollama", "openai", "anthropic"
	Provider string `mapstructure:"provider"`

	// Global settings applied to all providers
	Temperature float32  `mapstructure:"temperature"`
	MaxTokens   int      `mapstructure:"max_tokens"`
	Stop        []string `mapstructure:"stop"` // stop sequences passed with every request
	Seed        int      `mapstructure:"seed"` // 0 leaves sampling unseeded

	// Provider-specific configuration
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

// Model returns the model configured for the selected provider.
func (c LLMConfig) Model() string {
	switch strings.ToLower(c.Provider) {
	case "ollama":
		return c.Ollama.Model
	case "openai":
		return c.OpenAI.Model
	case "anthropic":
		return c.Anthropic.Model
	default:
		return ""
	}
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host    string        `mapstructure:"host"`    // API endpoint
	Model   string        `mapstructure:"model"`   // Default model name
	Timeout time.Duration `mapstructure:"timeout"` // e.g. "2m"; 0 disables
}

// OpenAIConfig holds OpenAI-specific settings.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`  // Optional: read from OPENAI_API_KEY if empty
	Model   string `mapstructure:"model"`    // e.g., "gpt-4o"
	BaseURL string `mapstructure:"base_url"` // Optional: for compatible endpoints
	OrgID   string `mapstructure:"org_id"`   // Optional: organization ID
}

// AnthropicConfig holds Anthropic/Claude-specific settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"` // Optional: read from ANTHROPIC_API_KEY if empty
	Model  string `mapstructure:"model"`
}
