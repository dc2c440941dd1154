package cmd

import (
	"github.com/bastiangx/linkmatch/internal/cli"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl FILE...",
		Short: "Query match lists interactively",
		Long: `Start a console over the sentences of the given corpus files.
Useful for testing and debugging fixtures; type 'help' for commands.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sents, names, err := loadSentences(args)
			if err != nil {
				return err
			}
			opts, err := a.cfg.MatcherOptions()
			if err != nil {
				return err
			}
			out := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportCaller:    false,
				ReportTimestamp: false,
			})
			log.Debug("Console info:", "sentences", len(sents), "lower", a.cfg.Matcher.LowerMatch)
			h := cli.NewInputHandler(sents, names, a.cfg.Timeout(), out, opts...)
			return h.Start(cmd.InOrStdin())
		},
	}
}
