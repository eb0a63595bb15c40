package llm

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/bimmerbailey/fieldprompt/internal/config"
)

func init() {
	Register("openai", newOpenAI)
	Register("anthropic", newAnthropic)
}

// apiKey prefers the configured key and falls back to env.
func apiKey(provider, configured, env string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if key := os.Getenv(env); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s api key not configured: set %s environment variable or llm.%s.api_key in config",
		provider, env, provider)
}

func newOpenAI(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	c := cfg.LLM.OpenAI
	key, err := apiKey("openai", c.APIKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	opts := []openai.Option{openai.WithToken(key), openai.WithModel(c.Model)}
	if c.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(c.BaseURL))
	}
	org := c.OrgID
	if org == "" {
		org = os.Getenv("OPENAI_ORG_ID")
	}
	if org != "" {
		opts = append(opts, openai.WithOrganization(org))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai provider: %w", err)
	}
	logger.Info("initialized openai provider", "model", c.Model, "base_url", c.BaseURL)

	return &langchainProvider{name: "openai", model: model, dflt: c.Model, logger: logger}, nil
}

func newAnthropic(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	c := cfg.LLM.Anthropic
	key, err := apiKey("anthropic", c.APIKey, "ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}

	model, err := anthropic.New(anthropic.WithToken(key), anthropic.WithModel(c.Model))
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic provider: %w", err)
	}
	logger.Info("initialized anthropic provider", "model", c.Model)

	return &langchainProvider{name: "anthropic", model: model, dflt: c.Model, logger: logger}, nil
}
