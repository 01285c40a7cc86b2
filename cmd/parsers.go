package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/23andMe/lintly/internal/parsers"
)

// newParsersCmd lists the linter formats `review --format` accepts.
func newParsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parsers",
		Short: "List the supported linter output formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, format := range parsers.Formats() {
				fmt.Fprintln(cmd.OutOrStdout(), format)
			}
		},
	}
}
