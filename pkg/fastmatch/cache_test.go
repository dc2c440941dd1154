package fastmatch

import (
	"testing"

	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/lattice"
	"github.com/stretchr/testify/assert"
)

func TestMatchCache(t *testing.T) {
	tbl := connector.NewTable()
	ss := connector.New(tbl.MustIntern("Ss"))
	sp := connector.New(tbl.MustIntern("Sp"))
	s := connector.New(tbl.MustIntern("S"))

	var c matchCache
	assert.True(t, c.matches(ss, ss, connector.StrictLower))
	assert.True(t, c.matches(ss, ss, connector.StrictLower))
	assert.Equal(t, uint64(1), c.hits)

	assert.False(t, c.matches(sp, ss, connector.StrictLower))
	assert.False(t, c.matches(s, ss, connector.StrictLower))
	assert.False(t, c.matches(s, ss, connector.PaddedLower), "hit is keyed on the candidate only")
	assert.Equal(t, uint64(2), c.hits)

	c.reset()
	assert.True(t, c.matches(s, ss, connector.PaddedLower))
	assert.Equal(t, uint64(4), c.misses)
}

func TestAltCache(t *testing.T) {
	g := lattice.New()
	orig := g.Original("don't")
	alts := g.Split(orig, 2)
	do, not := alts[0].Word("do"), alts[0].Word("n't")
	dont := alts[1].Word("don't")

	tbl := connector.NewTable()
	conn := func(nodes ...*lattice.Node) *connector.Connector {
		c := connector.New(tbl.MustIntern("X"))
		c.Origins = nodes
		return c
	}

	var c altCache
	q := conn(do)
	assert.True(t, c.possible(conn(not), q))
	assert.False(t, c.possible(conn(dont), q))

	shared := conn(dont)
	assert.False(t, c.possible(shared, q))
	assert.Equal(t, uint64(1), c.hits)

	assert.True(t, c.possible(conn(orig), q), "depth 0 bypasses the check")
	assert.True(t, c.possible(conn(), q), "no origin bypasses the check")
	c.reset()
	assert.Nil(t, c.node)
	assert.True(t, c.possible(conn(dont, not), q), "any origin pair may agree")
}
