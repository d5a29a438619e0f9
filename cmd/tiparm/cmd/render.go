package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <template> [args...]",
	Short: "Render a parameterized string",
	Example: `  tiparm render '\E[%i%p1%d;%p2%dH' 23 4
  tiparm render '%p1%{2}%*%d' 21`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := unescape(args[0])
		if err != nil {
			return err
		}
		out, err := cache.Render(tmpl, parseArgs(args[1:])...)
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		return emit(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
