package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/fieldprompt/internal/config"
	"github.com/bimmerbailey/fieldprompt/internal/example"
	"github.com/bimmerbailey/fieldprompt/internal/llm"
	"github.com/bimmerbailey/fieldprompt/internal/output"
	"github.com/bimmerbailey/fieldprompt/internal/redact"
	"github.com/bimmerbailey/fieldprompt/internal/template"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fieldprompt",
	Short: "Compile field templates into prompts and parse completions back",
	Long: `Fieldprompt compiles a compact field template into a structured
few-shot prompt and splits model completions back into the same fields.

A template's first line is the instruction; every other line declares a
field such as "Question: {question}" or "Answer: {answer} ${a short answer}".
Values and demonstrations are read from YAML files.

Examples:
  fieldprompt fields qa.txt
  fieldprompt render qa.txt --values question.yaml --demos 'demos/*.yaml'
  fieldprompt extract qa.txt --values question.yaml --completion out.txt
  fieldprompt predict qa.txt --values question.yaml`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fieldprompt.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().String("color", "auto", "color role headers (auto, always, never)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".fieldprompt")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FIELDPROMPT")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func setDefaults() {
	viper.SetDefault("format", "text")
	viper.SetDefault("color", "auto")
	viper.SetDefault("verbose", false)
	viper.SetDefault("debug", false)

	viper.SetDefault("template.show_guidelines", true)
	viper.SetDefault("template.strip_trailing_dashes", true)
	viper.SetDefault("template.query_only", false)
	viper.SetDefault("template.input_fields", []string{})

	viper.SetDefault("redaction.enabled", false)
	viper.SetDefault("redaction.patterns", redact.DefaultPatterns())

	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.max_tokens", 0)
	viper.SetDefault("llm.stop", []string{"\n\n---"})
	viper.SetDefault("llm.seed", 0)
	viper.SetDefault("llm.ollama.host", "http://localhost:11434")
	viper.SetDefault("llm.ollama.model", "llama3.2")
	viper.SetDefault("llm.ollama.timeout", "5m")
	viper.SetDefault("llm.openai.model", "gpt-4o")
	viper.SetDefault("llm.anthropic.model", "claude-3-5-sonnet-latest")
}

// loadConfig decodes the merged flag, env, file and default settings.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// newLogger logs to stderr at Warn level, Info with --verbose and Debug
// with --debug.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case cfg.Debug:
		level = slog.LevelDebug
	case cfg.Verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newWriter(w io.Writer, cfg *config.Config) *output.Writer {
	wr := output.New(w, output.ParseFormat(cfg.Format))
	wr.SetColorMode(output.ParseColorMode(cfg.Color))
	return wr
}

// loadTemplate reads and compiles the template at path with the configured
// settings.
func loadTemplate(path string, cfg *config.Config, logger *slog.Logger) (*template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.Compile(string(data),
		template.WithSettings(template.Settings{
			ShowGuidelines:      cfg.Template.ShowGuidelines,
			StripTrailingDashes: cfg.Template.StripTrailingDashes,
			QueryOnly:           cfg.Template.QueryOnly,
		}),
		template.WithInputFields(cfg.Template.InputFields...),
		template.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tmpl, nil
}

// loadExample reads the live example from valuesPath (empty when no path is
// given) and appends the demonstrations matched by demoPatterns, in sorted
// file order, after any demos the values file already holds.
func loadExample(valuesPath string, demoPatterns []string, logger *slog.Logger) (*example.Example, []string, error) {
	ex := example.New()
	var files []string

	if valuesPath != "" {
		loaded, err := example.Load(valuesPath)
		if err != nil {
			return nil, nil, err
		}
		ex = loaded
		files = append(files, valuesPath)
	}

	demoFiles, err := config.ExpandGlobs(demoPatterns)
	if err != nil {
		return nil, nil, err
	}
	for _, path := range demoFiles {
		demo, err := example.Load(path)
		if err != nil {
			return nil, nil, err
		}
		ex.Demos = append(ex.Demos, demo)
	}
	files = append(files, demoFiles...)

	logger.Info("loaded example", "values", valuesPath, "keys", ex.Len(), "demos", len(ex.Demos))
	return ex, files, nil
}

// redactMessages masks sensitive values when redaction is enabled.
func redactMessages(msgs []llm.Message, cfg *config.Config, logger *slog.Logger) ([]llm.Message, error) {
	if !cfg.Redaction.Enabled {
		return msgs, nil
	}
	r, err := redact.New(cfg.Redaction.Patterns)
	if err != nil {
		return nil, err
	}
	msgs = r.Messages(msgs)
	logger.Info("redacted prompt", "values", r.Count())
	return msgs, nil
}
