package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bimmerbailey/fieldprompt/internal/config"
	"github.com/bimmerbailey/fieldprompt/internal/llm"
	_ "github.com/bimmerbailey/fieldprompt/internal/llm/ollama"
)

var predictCmd = &cobra.Command{
	Use:   "predict <template>",
	Short: "Fill the template's last field with a language model",
	Long: `Assemble the prompt, send it to the configured LLM provider, and split
the completion back into the template's fields.

The provider is selected by llm.provider in the config file (ollama, openai
or anthropic). API keys are read from the config or from OPENAI_API_KEY and
ANTHROPIC_API_KEY.

Examples:
  fieldprompt predict qa.txt --values question.yaml
  fieldprompt predict qa.txt --values question.yaml --demos 'demos/*.yaml' --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runPredict,
}

func init() {
	addPromptFlags(predictCmd)

	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	opts := promptOptionsFromFlags(cmd, args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w\n\nTroubleshooting:\n- Ensure Ollama is running: ollama serve\n- Check provider config in ~/.fieldprompt.yaml\n- For cloud providers, verify API keys are set", err)
	}

	return predict(cmd.Context(), cmd.OutOrStdout(), cfg, opts, provider, logger)
}

// predict runs one assemble, complete and extract cycle and writes the filled
// example.
func predict(ctx context.Context, w io.Writer, cfg *config.Config, opts promptOptions, provider llm.Provider, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := provider.Heartbeat(ctx); err != nil {
		if cfg.LLM.Provider == "ollama" {
			return fmt.Errorf("cannot connect to Ollama at %s: %w\n\nStart Ollama with: ollama serve",
				cfg.LLM.Ollama.Host, err)
		}
		return fmt.Errorf("LLM provider %s unavailable: %w", cfg.LLM.Provider, err)
	}

	tmpl, err := loadTemplate(opts.templatePath, cfg, logger)
	if err != nil {
		return err
	}
	ex, _, err := loadExample(opts.valuesPath, opts.demos, logger)
	if err != nil {
		return err
	}

	msgs, err := tmpl.Assemble(ex, opts.showGuidelines)
	if err != nil {
		return err
	}
	if msgs, err = redactMessages(msgs, cfg, logger); err != nil {
		return err
	}

	resp, err := provider.Complete(ctx, msgs, &llm.Options{
		Model:       cfg.LLM.Model(),
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Stop:        cfg.LLM.Stop,
		Seed:        cfg.LLM.Seed,
	})
	if err != nil {
		return fmt.Errorf("completion request failed: %w", err)
	}
	logger.Info("received completion",
		"model", resp.Model,
		"prompt_tokens", resp.PromptTokens,
		"output_tokens", resp.OutputTokens,
	)
	if resp.Truncated() {
		logger.Warn("completion hit the token limit; later fields may be missing",
			"max_tokens", cfg.LLM.MaxTokens)
	}

	ex = tmpl.Extract(ex, resp.Text)
	ex.Demos = nil
	ex.Augmented = false
	return newWriter(w, cfg).WriteExample(ex)
}
