package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <template> --completion <file|->",
	Short: "Split a model completion into the template's fields",
	Long: `Split a raw model completion into field values using the template's
field labels as delimiters, and print the filled example.

The completion is read as the continuation of the first field the values
file does not set. Use "-" to read the completion from stdin.

Examples:
  fieldprompt extract qa.txt --values question.yaml --completion out.txt
  echo "Paris" | fieldprompt extract qa.txt --values question.yaml --completion -`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("completion", "c", "", "file holding the completion text, or - for stdin (required)")
	extractCmd.Flags().String("values", "", "YAML or JSON file with the values already known")

	_ = extractCmd.MarkFlagRequired("completion")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	completionPath, _ := cmd.Flags().GetString("completion")
	valuesPath, _ := cmd.Flags().GetString("values")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	completion, err := readCompletion(completionPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	tmpl, err := loadTemplate(args[0], cfg, logger)
	if err != nil {
		return err
	}
	ex, _, err := loadExample(valuesPath, nil, logger)
	if err != nil {
		return err
	}

	ex = tmpl.Extract(ex, completion)
	ex.Demos = nil
	ex.Augmented = false
	return newWriter(cmd.OutOrStdout(), cfg).WriteExample(ex)
}

func readCompletion(path string, stdin io.Reader) (string, error) {
	if path == "" {
		return "", errors.New("completion path is empty")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read completion: %w", err)
	}
	return string(data), nil
}
