package cmd

import (
	"os"

	"github.com/bastiangx/linkmatch/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MessagePack requests on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Debug("spawning IPC")
			srv, err := server.NewServer(a.cfg, a.cfgPath, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer srv.Close()
			showStartupInfo(a)
			return srv.Start(cmd.Context())
		},
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(a *app) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", configLabel(a))
	log.Info("status: ready")
}

func configLabel(a *app) string {
	if a.cfgPath == "" {
		return "builtin defaults"
	}
	return a.cfgPath
}
