package cmd

import (
	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <template>",
	Short: "Compile a template and list its fields",
	Long: `Compile a template and print its instruction line and fields.

Use it to check how a template parses: labels, separators, variable
bindings (including "{in -> out}" renames) and descriptions.

Examples:
  fieldprompt fields qa.txt
  fieldprompt fields qa.txt --format table`,
	Args: cobra.ExactArgs(1),
	RunE: runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	tmpl, err := loadTemplate(args[0], cfg, logger)
	if err != nil {
		return err
	}
	return newWriter(cmd.OutOrStdout(), cfg).WriteTemplate(tmpl)
}
