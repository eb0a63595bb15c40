package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bimmerbailey/fieldprompt/internal/config"
	"github.com/bimmerbailey/fieldprompt/internal/watch"
)

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Assemble the prompt messages for a template and values",
	Long: `Assemble the full prompt for a template: the instruction block, the
format guidelines, any demonstrations and the live query.

The last field of the template is the one being predicted; if the values
file holds it, it is removed before rendering.

Examples:
  fieldprompt render qa.txt --values question.yaml
  fieldprompt render qa.txt --values question.yaml --demos 'demos/*.yaml'
  fieldprompt render qa.txt --values question.yaml --no-guidelines --format json
  fieldprompt render qa.txt --values question.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	addPromptFlags(renderCmd)
	renderCmd.Flags().BoolP("watch", "w", false, "re-render when the template, values or demo files change")

	rootCmd.AddCommand(renderCmd)
}

// addPromptFlags registers the flags shared by commands that assemble a prompt.
func addPromptFlags(cmd *cobra.Command) {
	cmd.Flags().String("values", "", "YAML or JSON file with the live example")
	cmd.Flags().StringSliceP("demos", "d", []string{}, "demo file(s) or glob(s) (repeatable)")
	cmd.Flags().Bool("no-guidelines", false, "omit the format guidelines block")
}

// promptOptions are the inputs to one prompt assembly.
type promptOptions struct {
	templatePath   string
	valuesPath     string
	demos          []string
	showGuidelines bool
}

func promptOptionsFromFlags(cmd *cobra.Command, args []string) promptOptions {
	values, _ := cmd.Flags().GetString("values")
	demos, _ := cmd.Flags().GetStringSlice("demos")
	noGuidelines, _ := cmd.Flags().GetBool("no-guidelines")

	return promptOptions{
		templatePath:   args[0],
		valuesPath:     values,
		demos:          demos,
		showGuidelines: !noGuidelines,
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	opts := promptOptionsFromFlags(cmd, args)
	watchFiles, _ := cmd.Flags().GetBool("watch")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	out := cmd.OutOrStdout()

	files, err := renderPrompt(out, cfg, opts, logger)
	if err != nil || !watchFiles {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := append([]string{opts.templatePath}, files...)
	w, err := watch.New(paths, func(ctx context.Context, path string) error {
		logger.Info("re-rendering", "changed", path)
		fmt.Fprintf(out, "\n==> %s changed <==\n\n", path)
		if _, err := renderPrompt(out, cfg, opts, logger); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
		return nil
	}, watch.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes. Press Ctrl+C to stop.")
	return w.Run(ctx)
}

// renderPrompt assembles and writes the prompt, returning the value and demo
// files it read.
func renderPrompt(w io.Writer, cfg *config.Config, opts promptOptions, logger *slog.Logger) ([]string, error) {
	tmpl, err := loadTemplate(opts.templatePath, cfg, logger)
	if err != nil {
		return nil, err
	}

	ex, files, err := loadExample(opts.valuesPath, opts.demos, logger)
	if err != nil {
		return nil, err
	}

	msgs, err := tmpl.Assemble(ex, opts.showGuidelines)
	if err != nil {
		return nil, err
	}
	if msgs, err = redactMessages(msgs, cfg, logger); err != nil {
		return nil, err
	}
	return files, newWriter(w, cfg).WriteMessages(msgs)
}
