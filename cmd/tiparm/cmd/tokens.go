package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agenthands/tiparm/pkg/compiler/lexer"
)

var (
	offsetColor = color.New(color.FgYellow).SprintFunc()
	kindColor   = color.New(color.FgCyan).SprintFunc()
	roleColor   = color.New(color.FgMagenta).SprintFunc()
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <template>",
	Short: "List the tokens of a parameterized string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := unescape(args[0])
		if err != nil {
			return err
		}
		tokens, err := lexer.Extract(tmpl)
		if err != nil {
			return fmt.Errorf("extract failed: %w", err)
		}
		return dumpTokens(cmd.OutOrStdout(), tokens, 0, 0)
	},
}

func dumpTokens(w io.Writer, tokens []lexer.Token, base, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, tok := range tokens {
		fmt.Fprintf(w, "%s%s %s %s\n", indent,
			offsetColor(fmt.Sprintf("%4d", base+tok.Offset)), kindColor(tok.Kind), strconv.Quote(tok.Text))
		if tok.Kind != lexer.KindConditional {
			continue
		}

		branches, err := lexer.SplitConditional(tok)
		if err != nil {
			return err
		}
		for _, b := range branches {
			fmt.Fprintf(w, "%s  %s %s\n", indent, roleColor(b.Role), strconv.Quote(b.Text))
			inner, err := lexer.Extract(b.Text)
			if err != nil {
				return err
			}
			if err := dumpTokens(w, inner, base+b.Offset, depth+2); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
