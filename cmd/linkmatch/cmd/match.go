package cmd

import (
	"fmt"

	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/fastmatch"
	"github.com/spf13/cobra"
)

type matchFlags struct {
	sentence int
	word     int
	lc, rc   string
	lw, rw   int
	limit    int
}

func newMatchCmd(a *app) *cobra.Command {
	var f matchFlags

	cmd := &cobra.Command{
		Use:   "match FILE",
		Short: "Print the match list of one word",
		Long: `Print the disjuncts of a word that can link to lc at word lw on the
left and/or rc at word rw on the right. Connectors are named as in disjunct
notation, without the direction mark.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, a, args[0], f)
		},
	}

	cmd.Flags().IntVarP(&f.sentence, "sentence", "s", 0, "Sentence index in the file")
	cmd.Flags().IntVarP(&f.word, "word", "w", 0, "Word whose disjuncts are matched")
	cmd.Flags().StringVar(&f.lc, "lc", "", "Left connector")
	cmd.Flags().IntVar(&f.lw, "lw", 0, "Word the left connector belongs to")
	cmd.Flags().StringVar(&f.rc, "rc", "", "Right connector")
	cmd.Flags().IntVar(&f.rw, "rw", 0, "Word the right connector belongs to")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Length limit of the query connectors (0 for none)")
	return cmd
}

func runMatch(cmd *cobra.Command, a *app, path string, f matchFlags) error {
	sents, _, err := loadSentences([]string{path})
	if err != nil {
		return err
	}
	if f.sentence < 0 || f.sentence >= len(sents) {
		return fmt.Errorf("no sentence %d in %s", f.sentence, path)
	}
	s := sents[f.sentence]
	if f.word < 0 || f.word >= s.Len() {
		return fmt.Errorf("word %d outside sentence of %d words", f.word, s.Len())
	}
	if f.lc == "" && f.rc == "" {
		return fmt.Errorf("at least one of --lc and --rc is needed")
	}

	query := func(name string) (*connector.Connector, error) {
		if name == "" {
			return nil, nil
		}
		desc, err := s.Table.Intern(name)
		if err != nil {
			return nil, err
		}
		c := connector.New(desc)
		if f.limit > 0 {
			c.LengthLimit = f.limit
		}
		return c, nil
	}
	lc, err := query(f.lc)
	if err != nil {
		return err
	}
	rc, err := query(f.rc)
	if err != nil {
		return err
	}
	if lc != nil && (f.lw < 0 || f.lw >= f.word) {
		return fmt.Errorf("lw %d must lie left of word %d", f.lw, f.word)
	}
	if rc != nil && (f.rw <= f.word || f.rw >= s.Len()) {
		return fmt.Errorf("rw %d must lie right of word %d", f.rw, f.word)
	}

	opts, err := a.cfg.MatcherOptions()
	if err != nil {
		return err
	}
	m := fastmatch.New(s, opts...)
	defer m.Free()

	p := m.FormMatchList(f.word, lc, f.lw, rc, f.rw)
	out := cmd.OutOrStdout()
	if m.IsEmpty(p) {
		fmt.Fprintf(out, "no matches for word %d (%s)\n", f.word, s.Words[f.word].Text)
		return nil
	}
	fmt.Fprint(out, m.FormatMatchList(p, f.word, lc, f.lw, rc, f.rw))
	return nil
}
