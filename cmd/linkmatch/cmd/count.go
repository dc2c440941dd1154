package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/bastiangx/linkmatch/pkg/batch"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
)

func newCountCmd(a *app) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "count FILE...",
		Short: "Count the linkages of every sentence in corpus files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Batch.Workers
			}
			return runCount(cmd, a, args, workers)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Parallel workers (0 for GOMAXPROCS, default from config)")
	return cmd
}

func runCount(cmd *cobra.Command, a *app, paths []string, workers int) error {
	sents, names, err := loadSentences(paths)
	if err != nil {
		return err
	}
	for _, s := range sents {
		if s.Len() > a.cfg.Search.MaxWords {
			return fmt.Errorf("sentence of %d words exceeds max_words %d", s.Len(), a.cfg.Search.MaxWords)
		}
	}
	opts, err := a.cfg.MatcherOptions()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if d := a.cfg.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d*time.Duration(max(len(sents), 1)))
		defer cancel()
	}

	start := time.Now()
	results, err := batch.CountAll(ctx, sents, workers, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-40s %6s %12s %10s %12s", "sentence", "words", "linkages", "queries", "time")))
	var total int64
	for i, r := range results {
		fmt.Fprintf(out, "%-40s %6d %s %10d %12v\n",
			names[i], r.Words, countStyle.Render(fmt.Sprintf("%12d", r.Linkages)), r.Queries, r.Elapsed.Round(time.Microsecond))
		total += r.Linkages
	}
	fmt.Fprintf(out, "%d sentences, %d linkages in %v\n", len(results), total, time.Since(start).Round(time.Microsecond))
	return nil
}
