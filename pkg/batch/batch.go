// Package batch counts linkages for many sentences in parallel.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/bastiangx/linkmatch/pkg/fastmatch"
	"github.com/bastiangx/linkmatch/pkg/search"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome for one sentence.
type Result struct {
	Index    int
	Words    int
	Linkages int64
	Queries  uint64
	Elapsed  time.Duration
}

// CountAll counts the linkages of every sentence using at most workers
// goroutines (GOMAXPROCS when workers <= 0). Each worker owns one matcher
// and rebuilds it per sentence. Results are in input order. The first
// error cancels the remaining work.
func CountAll(ctx context.Context, sents []*disjunct.Sentence, workers int, opts ...fastmatch.Option) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(len(sents), 1))

	results := make([]Result, len(sents))
	g, gctx := errgroup.WithContext(ctx)

	next := make(chan int)
	g.Go(func() error {
		defer close(next)
		for i := range sents {
			select {
			case next <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			var m *fastmatch.Matcher
			var c *search.Counter
			defer func() {
				if m != nil {
					m.Free()
				}
			}()
			for i := range next {
				s := sents[i]
				start := time.Now()
				if m == nil {
					m = fastmatch.New(s, opts...)
					c = search.NewCounter(m)
				} else {
					m.Reset(s)
					c.Reset()
				}
				before := m.Stats().Queries
				n, err := c.Count(gctx)
				if err != nil {
					return fmt.Errorf("sentence %d: %w", i, err)
				}
				results[i] = Result{
					Index:    i,
					Words:    s.Len(),
					Linkages: n,
					Queries:  m.Stats().Queries - before,
					Elapsed:  time.Since(start),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debugf("Counted %d sentences with %d workers", len(sents), workers)
	return results, nil
}
