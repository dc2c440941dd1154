package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/linkmatch/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or reset the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the active config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetActiveConfigPath(a.cfgPath))
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the loaded configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(a.cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Rewrite the default config file with builtin defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.RebuildConfigFile(); err != nil {
				return err
			}
			path, _ := config.GetDefaultConfigPath()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %s\n", path)
			return err
		},
	})
	return cmd
}
