package cmd

import (
	"fmt"

	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/corpus"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert a corpus file between YAML, msgpack and zstd msgpack",
		Long: `Convert a corpus file. Formats follow the extensions:
.yaml/.yml, .mpk and .mpk.zst.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			f, err := corpus.Load(in)
			if err != nil {
				return err
			}
			if check {
				if _, err := f.Build(connector.NewTable()); err != nil {
					return fmt.Errorf("%s: %w", in, err)
				}
			}
			if err := corpus.Save(f, out); err != nil {
				return err
			}
			log.Debugf("Converted %s (%s) to %s (%s)", in, corpus.FormatFor(in), out, corpus.FormatFor(out))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sentences to %s\n", len(f.Sentences), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", true, "Build every sentence before writing")
	return cmd
}
