package fastmatch

import (
	"fmt"
	"io"
	"testing"

	"github.com/bastiangx/linkmatch/internal/logger"
	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/charmbracelet/log"
)

var quiet = logger.NewWithConfig(io.Discard, "test", log.ErrorLevel, false, false, log.TextFormatter)

// buildSentence creates one word per argument, each with the given
// disjuncts in notation form, and finalizes it.
func buildSentence(t testing.TB, words ...[]string) *disjunct.Sentence {
	t.Helper()
	tbl := connector.NewTable()
	s := disjunct.NewSentence(tbl)
	for i, ds := range words {
		w := s.AddWord(fmt.Sprintf("w%d", i), nil)
		for _, n := range ds {
			d, err := disjunct.Parse(tbl, n, 0)
			if err != nil {
				t.Fatalf("parse %q: %v", n, err)
			}
			w.Add(d)
		}
	}
	s.Finalize()
	return s
}

// queryConn makes a free-standing query connector.
func queryConn(s *disjunct.Sentence, name string) *connector.Connector {
	return connector.New(s.Table.MustIntern(name))
}

func newTestMatcher(s *disjunct.Sentence, opts ...Option) *Matcher {
	return New(s, append([]Option{WithLogger(quiet)}, opts...)...)
}

// disjuncts returns the disjunct pointers of a list.
func disjuncts(ms []Match) []*disjunct.Disjunct {
	out := make([]*disjunct.Disjunct, len(ms))
	for i, m := range ms {
		out[i] = m.Disjunct
	}
	return out
}

// notations renders the disjuncts of a list.
func notations(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Disjunct.String()
	}
	return out
}
