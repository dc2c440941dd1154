// Package search counts the linkages of a sentence by driving the match
// lists of a fastmatch.Matcher through the usual recursive split of a span
// into a left and a right half.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bastiangx/linkmatch/internal/logger"
	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/fastmatch"
	"github.com/charmbracelet/log"
)

// ErrCanceled is returned when the context ends during a count.
var ErrCanceled = errors.New("search canceled")

// pollInterval is how many recursive calls pass between context checks.
const pollInterval = 1 << 12

type spanKey struct {
	lw, rw int
	le, re *connector.Connector
}

// Counter counts complete linkages. It is not safe for concurrent use; it
// owns the arena of its matcher while counting.
type Counter struct {
	m    *fastmatch.Matcher
	memo map[spanKey]int64
	log  *log.Logger

	ctx   context.Context
	err   error
	calls uint64
	hits  uint64
}

// NewCounter returns a counter over the tables of m.
func NewCounter(m *fastmatch.Matcher) *Counter {
	return &Counter{
		m:    m,
		memo: make(map[spanKey]int64),
		log:  logger.New("search"),
	}
}

// WithLogger replaces the counter's logger.
func (c *Counter) WithLogger(l *log.Logger) *Counter {
	c.log = l
	return c
}

// Reset drops memoised spans. Call it after the matcher was rebuilt.
func (c *Counter) Reset() {
	clear(c.memo)
	c.calls, c.hits = 0, 0
}

// Calls is the number of span evaluations of the last count, memo hits included.
func (c *Counter) Calls() uint64 { return c.calls }

// MemoHits is the number of spans answered from the memo.
func (c *Counter) MemoHits() uint64 { return c.hits }

// Count returns the number of linkages in which every word is linked.
// Counts saturate at math.MaxInt64.
func (c *Counter) Count(ctx context.Context) (int64, error) {
	sent := c.m.Sentence()
	if sent == nil || sent.Len() == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	c.ctx, c.err = ctx, nil
	defer func() { c.ctx = nil }()

	release := c.m.Scope()
	defer release()

	n := sent.Len()
	var total int64
	for _, d := range sent.Words[0].Disjuncts {
		if d.Left != nil {
			continue
		}
		total = add(total, c.count(0, n, d.Right, nil))
		if c.err != nil {
			return 0, c.err
		}
	}
	c.log.Debug("count done", "words", n, "linkages", total, "calls", c.calls, "memo", len(c.memo), "hits", c.hits)
	return total, nil
}

func (c *Counter) count(lw, rw int, le, re *connector.Connector) int64 {
	if c.err != nil {
		return 0
	}
	c.calls++
	if c.calls%pollInterval == 0 {
		if err := c.ctx.Err(); err != nil {
			c.err = fmt.Errorf("%w: %w", ErrCanceled, err)
			return 0
		}
	}

	if rw == lw+1 {
		if le == nil && re == nil {
			return 1
		}
		return 0
	}
	if le == nil && re == nil {
		// words in between would stay unlinked
		return 0
	}

	key := spanKey{lw, rw, le, re}
	if v, ok := c.memo[key]; ok {
		c.hits++
		return v
	}

	start, end := lw+1, rw
	if le != nil {
		start = max(start, le.NearestWord)
	}
	if re != nil {
		end = min(end, re.NearestWord+1)
	}

	var total int64
	for w := start; w < end; w++ {
		total = add(total, c.split(lw, w, rw, le, re))
		if c.err != nil {
			return 0
		}
	}
	c.memo[key] = total
	return total
}

// split counts the linkages in which word w links to le and/or re.
func (c *Counter) split(lw, w, rw int, le, re *connector.Connector) int64 {
	release := c.m.Scope()
	defer release()

	var total int64
	p := c.m.FormMatchList(w, le, lw, re, rw)
	c.m.Each(p, func(mt fastmatch.Match) bool {
		d := mt.Disjunct
		var left, right int64
		if mt.Left {
			left = c.pair(lw, w, le, d.Left)
		}
		if mt.Right {
			right = c.pair(w, rw, d.Right, re)
		}
		total = add(total, mul(left, right))
		if left > 0 {
			// re stays for a word beyond w
			total = add(total, mul(left, c.count(w, rw, d.Right, re)))
		}
		if le == nil && right > 0 {
			total = add(total, mul(right, c.count(lw, w, le, d.Left)))
		}
		return c.err == nil
	})
	return total
}

// pair counts the spans left over once a and b are linked to each other.
// A multi-connector may stay in place to link again.
func (c *Counter) pair(lw, rw int, a, b *connector.Connector) int64 {
	n := c.count(lw, rw, a.Next, b.Next)
	if a.Multi {
		n = add(n, c.count(lw, rw, a, b.Next))
	}
	if b.Multi {
		n = add(n, c.count(lw, rw, a.Next, b))
	}
	if a.Multi && b.Multi {
		n = add(n, c.count(lw, rw, a, b))
	}
	return n
}

func add(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func mul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}
