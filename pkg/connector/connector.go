/*
Package connector holds the connector descriptors and the per-disjunct
connector chains consumed by the fast matcher.

A connector name such as "Ss*b" splits into an uppercase class ("Ss" -> "S")
and a lowercase subtype ("s*b"). Two connectors can only link when their
classes are identical; the subtype then refines the match through a
[LowerMatcher]. Descriptors are interned by a [Table], so pointer equality on
*Descriptor is equality of the full connector name.
*/
package connector

import (
	"strconv"
	"strings"

	"github.com/bastiangx/linkmatch/pkg/lattice"
)

// Unlimited is the length limit of a connector that may reach any word.
const Unlimited = int(^uint(0) >> 1)

// Descriptor is the interned, immutable description of a connector type.
type Descriptor struct {
	String  string
	Upper   string
	Lower   string
	ClassID uint32
	Hash    uint32
}

// Connector is one link requirement on one side of a disjunct.
// Next points to the following connector of the same chain, which links
// nearer to the owning word than this one.
type Connector struct {
	Desc        *Descriptor
	LengthLimit int
	NearestWord int
	Multi       bool
	Next        *Connector
	Origins     []*lattice.Node
}

// New returns an unlinked connector for desc with no length limit.
func New(desc *Descriptor) *Connector {
	return &Connector{Desc: desc, LengthLimit: Unlimited}
}

// ClassEqual reports whether a and b share an uppercase class.
func ClassEqual(a, b *Descriptor) bool {
	return a.ClassID == b.ClassID
}

// Len returns the number of connectors in the chain starting at c.
func (c *Connector) Len() int {
	n := 0
	for ; c != nil; c = c.Next {
		n++
	}
	return n
}

// Origin returns the first originating lattice node, or nil.
func (c *Connector) Origin() *lattice.Node {
	if len(c.Origins) == 0 {
		return nil
	}
	return c.Origins[0]
}

func (c *Connector) String() string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	if c.Multi {
		sb.WriteByte('@')
	}
	sb.WriteString(c.Desc.String)
	if c.LengthLimit != Unlimited {
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(c.LengthLimit))
		sb.WriteByte('}')
	}
	return sb.String()
}

// ChainString renders a whole chain, head first.
func ChainString(c *Connector) string {
	var parts []string
	for ; c != nil; c = c.Next {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}
