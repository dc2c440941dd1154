package fastmatch

import (
	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/lattice"
)

// matchCache remembers the last lowercase comparison. Chains often repeat
// one descriptor several times in a row, so one slot catches most repeats.
// Buckets guarantee the class, so only the subtype is compared here.
type matchCache struct {
	desc  *connector.Descriptor
	match bool

	hits   uint64
	misses uint64
}

func (c *matchCache) reset() {
	c.desc = nil
}

func (c *matchCache) matches(a, b *connector.Connector, lower connector.LowerMatcher) bool {
	if c.desc == a.Desc {
		c.hits++
		return c.match
	}
	c.misses++
	c.match = lower(a.Desc.Lower, b.Desc.Lower)
	c.desc = a.Desc
	return c.match
}

// altCache remembers the alternative check for the last candidate origin.
// The query connector is fixed for a whole pass, so the candidate's first
// origin is enough as a key.
type altCache struct {
	node *lattice.Node
	same bool

	hits uint64
}

func (c *altCache) reset() {
	c.node = nil
}

// possible reports whether candidate a and query connector b can come from
// the same path through the word graph.
func (c *altCache) possible(a, b *connector.Connector) bool {
	oa, ob := a.Origin(), b.Origin()
	if oa == nil || ob == nil {
		return true
	}
	if ob.Depth == 0 || oa.Depth == 0 {
		return true
	}
	if oa == c.node {
		c.hits++
		return c.same
	}

	same := false
outer:
	for _, ga := range a.Origins {
		for _, gb := range b.Origins {
			if lattice.InSameAlternative(ga, gb) {
				same = true
				break outer
			}
		}
	}
	c.node = oa
	c.same = same
	return same
}
