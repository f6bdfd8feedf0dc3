package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labelkit/zplview/internal/zpl"
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check whether markup can be rendered locally",
	Long: `Check ZPL markup (from a file or stdin with "-") against the built-in
interpreter's capabilities without rendering it. Unsupported constructs are
listed in order of first occurrence.

The exit code is 0 when the markup is locally renderable and 1 otherwise,
so the command works in shell pipelines.

Examples:
  zplview check label.zpl
  zplview check label.zpl --json
  cat label.zpl | zplview check -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		markup, err := readMarkup(args[0])
		if err != nil {
			return err
		}

		verdict := zpl.Classify(markup)

		if asJSON {
			out := struct {
				Supported bool     `json:"supported"`
				Missing   []string `json:"missing,omitempty"`
			}{Supported: verdict.Supported, Missing: verdict.Missing}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		} else if verdict.Supported {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "supported: all constructs render locally")
		} else {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unsupported: %s\n", strings.Join(verdict.Missing, ", "))
		}

		if !verdict.Supported {
			// Non-zero exit without usage spam.
			cmd.SilenceUsage = true
			return fmt.Errorf("markup needs remote rendering")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("json", false, "print the verdict as JSON")
}
