package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agenthands/tiparm/pkg/terminfo"
)

var listCaps bool

var capCmd = &cobra.Command{
	Use:   "cap <name> [args...]",
	Short: "Render a capability of the selected terminal",
	Example: `  tiparm cap cup 23 4
  tiparm --term xterm-256color cap setaf 196
  tiparm cap --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if listCaps {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := lookupEntry()
		if err != nil {
			return fmt.Errorf("terminal lookup failed: %w", err)
		}
		if listCaps {
			for _, name := range entry.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", name)
			}
			return nil
		}

		logger.Debug("render capability", slog.String("term", entry.Name), slog.String("cap", args[0]))
		out, err := entry.Render(cache, args[0], parseArgs(args[1:])...)
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		return emit(cmd, out)
	},
}

// lookupEntry resolves the configured terminal with config capabilities on
// top. A terminal missing from the database is usable through the overlay.
func lookupEntry() (*terminfo.Entry, error) {
	entry, err := source.Lookup(cfg.Term)
	if errors.Is(err, terminfo.ErrUnknownTerminal) && len(cfg.Capabilities) > 0 {
		logger.Warn("terminal not in database, using configured capabilities", slog.String("term", cfg.Term))
		entry, err = &terminfo.Entry{Name: cfg.Term}, nil
	}
	if err != nil {
		return nil, err
	}
	return entry.Merge(cfg.Capabilities), nil
}

func init() {
	capCmd.Flags().BoolVarP(&listCaps, "list", "l", false, "list capability names")
	rootCmd.AddCommand(capCmd)
}
