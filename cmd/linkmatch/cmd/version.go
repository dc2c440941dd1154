package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// config is not needed here
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportCaller:    false,
				ReportTimestamp: false,
				Prefix:          "",
			})
			if short {
				logger.Print(Version)
				return nil
			}

			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
				Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			logger.SetStyles(styles)

			logger.Print("")
			logger.Print("[ linkmatch ] Matches connectors really fast!")
			logger.Print("", "version", Version)
			logger.Print("")
			logger.Print("use -h or --help to see available options")
			logger.Print("Github Repo", "gh", gh)
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Output only the version number")
	return cmd
}
