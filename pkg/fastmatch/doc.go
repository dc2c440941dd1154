/*
Package fastmatch answers the question the linkage search asks at every step:
which disjuncts of word w can satisfy the connector lc coming from word lw,
and/or the connector rc coming from word rw?

# Tables

For every word, New builds two open-addressed hash tables (left and right).
Each is a power-of-two array of buckets, and every bucket holds the chain of
the word's disjuncts whose connector on that side belongs to one uppercase
class. Chains are sorted by the connector's nearest reachable word: right
chains ascending and left chains descending. A query can therefore stop a scan
as soon as the remaining entries cannot reach the requesting word.

	m := fastmatch.New(sent)
	defer m.Free()

# Queries

FormMatchList pushes the result onto the match-list arena and returns its
position. Lists are stacked: the caller marks the arena before recursing and
rewinds afterwards.

	release := m.Scope()
	pos := m.FormMatchList(w, lc, lw, rc, rw)
	m.Each(pos, func(mt fastmatch.Match) bool {
		// mt.Left / mt.Right tell which side matched
		return true
	})
	release()

Each entry carries its own match booleans. Source disjuncts are never
written, so two Matchers over distinct sentences share nothing.

# Concurrency

A Matcher is owned by one goroutine. Run one Matcher per sentence to parse
sentences in parallel.

# Failures

A bucket probe that wraps around the whole table during construction means
the table was sized wrong. That is a broken invariant and panics with
ErrTableOverflow. Nothing else in this package returns an error.
*/
package fastmatch
