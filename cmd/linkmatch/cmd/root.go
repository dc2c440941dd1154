// Package cmd provides the linkmatch subcommands.
package cmd

import (
	"context"
	"fmt"

	"github.com/bastiangx/linkmatch/internal/logger"
	"github.com/bastiangx/linkmatch/pkg/config"
	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/corpus"
	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0-beta"
	AppName = "linkmatch"
	gh      = "https://github.com/bastiangx/linkmatch"
)

// app is the state shared by subcommands once flags are parsed.
type app struct {
	configFlag string
	debug      bool

	cfg     *config.Config
	cfgPath string
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   AppName,
		Short: "Fast connector matching and linkage counting for link grammar",
		Long: `linkmatch builds per-word connector tables for a sentence and answers
match-list queries against them. It counts linkages of corpus sentences,
serves queries over MessagePack IPC, and has an interactive console for
debugging fixtures.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&a.configFlag, "config", "C", "", "Path to config.toml")
	cmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Toggle debug mode")

	cmd.AddCommand(newCountCmd(a))
	cmd.AddCommand(newMatchCmd(a))
	cmd.AddCommand(newReplCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	err := root.ExecuteContext(context.Background())
	if err != nil {
		log.Errorf("%v", err)
	}
	return err
}

func (a *app) init() error {
	logger.Configure(a.debug)
	cfg, path, err := config.LoadConfigWithPriority(a.configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg, a.cfgPath = cfg, path
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(path))
	return nil
}

// loadSentences reads every corpus file and builds its sentences. Each file
// gets its own connector table. The returned names are "file:sentence".
func loadSentences(paths []string) ([]*disjunct.Sentence, []string, error) {
	var sents []*disjunct.Sentence
	var names []string
	for _, p := range paths {
		f, err := corpus.Load(p)
		if err != nil {
			return nil, nil, err
		}
		built, err := f.Build(connector.NewTable())
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", p, err)
		}
		for i, s := range f.Sentences {
			name := s.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			names = append(names, p+":"+name)
		}
		sents = append(sents, built...)
	}
	return sents, names, nil
}
