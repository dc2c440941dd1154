package search

import (
	"context"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/bastiangx/linkmatch/internal/logger"
	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/bastiangx/linkmatch/pkg/fastmatch"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = logger.NewWithConfig(io.Discard, "test", log.ErrorLevel, false, false, log.TextFormatter)

func sentence(t *testing.T, words ...[]string) *disjunct.Sentence {
	t.Helper()
	tbl := connector.NewTable()
	s := disjunct.NewSentence(tbl)
	for i, ds := range words {
		w := s.AddWord(fmt.Sprintf("w%d", i), nil)
		for _, n := range ds {
			d, err := disjunct.Parse(tbl, n, 0)
			require.NoError(t, err, n)
			w.Add(d)
		}
	}
	s.Finalize()
	return s
}

func counter(s *disjunct.Sentence) *Counter {
	m := fastmatch.New(s, fastmatch.WithLogger(quiet))
	return NewCounter(m).WithLogger(quiet)
}

func TestCount(t *testing.T) {
	tests := []struct {
		name  string
		words [][]string
		want  int64
	}{
		{
			name: "simple chain",
			words: [][]string{
				{"Wd+"},
				{"Wd- Sp+"},
				{"Sp- O+"},
				{"O-"},
			},
			want: 1,
		},
		{
			name: "two readings",
			words: [][]string{
				{"A+"},
				{"A- B+", "A- C+"},
				{"B-", "C-"},
			},
			want: 2,
		},
		{
			name: "nested order",
			words: [][]string{
				{"A+ B+"},
				{"A-"},
				{"B-"},
			},
			want: 1,
		},
		{
			name: "length limit blocks the far link",
			words: [][]string{
				{"A+ B+{1}"},
				{"A-"},
				{"B-"},
			},
			want: 0,
		},
		{
			name: "multi connector links twice",
			words: [][]string{
				{"@A+"},
				{"A-"},
				{"A-"},
			},
			want: 1,
		},
		{
			name: "single connector cannot link twice",
			words: [][]string{
				{"A+"},
				{"A-"},
				{"A-"},
			},
			want: 0,
		},
		{
			name: "unlinked word",
			words: [][]string{
				{"A+"},
				{"A-"},
				{"B+"},
			},
			want: 0,
		},
		{
			name: "subtype mismatch",
			words: [][]string{
				{"Ss+"},
				{"Sp-"},
			},
			want: 0,
		},
		{
			name: "left wall needs a right side",
			words: [][]string{
				{"A-"},
				{"A+"},
			},
			want: 0,
		},
		{
			name:  "single word",
			words: [][]string{{"A+"}},
			want:  0,
		},
		{
			name: "link from the right of a word",
			words: [][]string{
				{"Wd+"},
				{"Wd- A+"},
				{"D+"},
				{"A- D-"},
			},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := counter(sentence(t, tt.words...))
			got, err := c.Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, c.m.Arena().Len(), "every step rewinds the arena")
		})
	}
}

func TestCountAmbiguityGrows(t *testing.T) {
	// a strict chain has exactly one linkage
	words := [][]string{{"W+"}}
	for i := 0; i < 6; i++ {
		words = append(words, []string{"W- W+"})
	}
	words = append(words, []string{"W-"})
	c := counter(sentence(t, words...))
	got, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	words = [][]string{{"@M+"}}
	for i := 0; i < 3; i++ {
		words = append(words, []string{"M-", "M- @M+"})
	}
	c = counter(sentence(t, words...))
	got, err = c.Count(context.Background())
	require.NoError(t, err)
	// every word hangs from the wall or from any earlier modifier
	assert.Equal(t, int64(5), got)
	assert.Greater(t, c.MemoHits(), uint64(0))
}

func TestCountMemoReset(t *testing.T) {
	s := sentence(t, []string{"A+"}, []string{"A- B+", "A- C+"}, []string{"B-", "C-"})
	c := counter(s)
	got, err := c.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), got)

	s.Words[2].Disjuncts = s.Words[2].Disjuncts[:1]
	c.m.Reset(s)
	c.Reset()
	got, err = c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestCountCanceled(t *testing.T) {
	c := counter(sentence(t, []string{"A+"}, []string{"A-"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Count(ctx)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountEmptySentence(t *testing.T) {
	c := counter(sentence(t))
	got, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestSaturatingArithmetic(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), add(math.MaxInt64, 1))
	assert.Equal(t, int64(5), add(2, 3))
	assert.Equal(t, int64(math.MaxInt64), mul(math.MaxInt64/2, 3))
	assert.Equal(t, int64(6), mul(2, 3))
	assert.Zero(t, mul(0, math.MaxInt64))
}
