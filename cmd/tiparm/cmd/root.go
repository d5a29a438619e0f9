package cmd

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/agenthands/tiparm/internal/logging"
	"github.com/agenthands/tiparm/pkg/config"
	"github.com/agenthands/tiparm/pkg/terminfo"
	"github.com/agenthands/tiparm/pkg/tiparm"
	"github.com/agenthands/tiparm/pkg/vm"
)

var (
	cfgFile  string
	termName string
	verbose  bool
	raw      bool
	delays   bool
)

// Set up by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger *slog.Logger
	cache  *tiparm.Cache
	source terminfo.Source = terminfo.TcellSource{}
)

var rootCmd = &cobra.Command{
	Use:   "tiparm",
	Short: "Render terminfo parameterized strings",
	Long: `tiparm evaluates terminfo parameterized capability strings.

Templates accept the usual source escapes (\E, \n, \\, octal \033).
Output is quoted when written to a terminal unless --raw is given.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.toml, .yaml)")
	rootCmd.PersistentFlags().StringVarP(&termName, "term", "t", "", "terminal name (default $TERM)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace token evaluation")
	rootCmd.PersistentFlags().BoolVar(&raw, "raw", false, "write output bytes unquoted")
	rootCmd.PersistentFlags().BoolVar(&delays, "delays", false, "honor $<N> padding delays")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if termName != "" {
		cfg.Term = termName
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err = logging.New(level, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := []vm.Option{vm.WithLogger(logger)}
	if cfg.StaticVariables {
		opts = append(opts, vm.WithStatics(vm.NewStatics()))
	}
	cache = tiparm.NewCache(opts...)
	return nil
}

// emit writes rendered output, waiting out padding when --delays is set.
func emit(cmd *cobra.Command, s string) error {
	segs, err := tiparm.SplitDelays(s)
	if err != nil {
		return err
	}
	quote := !raw && isTerminal(cmd.OutOrStdout())
	for i := range segs {
		if !delays {
			segs[i].Delay = 0
		}
		if quote {
			q := strconv.Quote(segs[i].Text)
			segs[i].Text = q[1 : len(q)-1]
		}
	}
	if quote {
		segs = append(segs, tiparm.Segment{Text: "\n"})
	}
	return tiparm.WriteSegments(cmd.Context(), cmd.OutOrStdout(), segs)
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseArgs passes integers as numbers and everything else as strings.
func parseArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if n, err := strconv.Atoi(a); err == nil {
			out[i] = n
		} else {
			out[i] = a
		}
	}
	return out
}
