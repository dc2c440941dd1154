package fastmatch

import (
	"fmt"
	"math/bits"

	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/disjunct"
)

type direction int

const (
	dirLeft direction = iota
	dirRight
)

func (dir direction) String() string {
	if dir == dirLeft {
		return "left"
	}
	return "right"
}

// side returns the connector of d facing dir.
func side(d *disjunct.Disjunct, dir direction) *connector.Connector {
	if dir == dirLeft {
		return d.Left
	}
	return d.Right
}

// table is one word's hash table for one direction. Every non-nil bucket
// holds a chain of a single uppercase class.
type table struct {
	buckets []*matchNode
}

// nextPow2 returns the smallest power of two >= n, and 1 for n <= 1.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// tableSize bounds the bucket count by the number of classes that can occur.
func tableSize(numClasses, count int) int {
	return nextPow2(min(numClasses, count))
}

// resize zeroes the table to size buckets, reusing storage when it fits.
func (t *table) resize(size int) {
	if cap(t.buckets) >= size {
		t.buckets = t.buckets[:size]
		clear(t.buckets)
		return
	}
	t.buckets = make([]*matchNode, size)
}

// bucketFor probes linearly from the class hash of c. It returns the bucket
// already holding c's class, or the first empty one. ok is false when the
// probe wrapped around a full table.
func (t *table) bucketFor(c *connector.Connector, dir direction) (idx int, ok bool) {
	mask := uint32(len(t.buckets) - 1)
	start := c.Desc.Hash & mask
	h := start
	for t.buckets[h] != nil {
		if connector.ClassEqual(side(t.buckets[h].d, dir).Desc, c.Desc) {
			return int(h), true
		}
		h = (h + 1) & mask
		if h == start {
			return -1, false
		}
	}
	return int(h), true
}

// lookup returns the chain for c's class, or nil.
func (t *table) lookup(c *connector.Connector, dir direction) *matchNode {
	if len(t.buckets) == 0 {
		return nil
	}
	idx, ok := t.bucketFor(c, dir)
	if !ok {
		return nil
	}
	return t.buckets[idx]
}

// insert puts m into its class chain, keeping the chain sorted.
func (t *table) insert(m *matchNode, dir direction) {
	c := side(m.d, dir)
	idx, ok := t.bucketFor(c, dir)
	if !ok {
		panic(fmt.Errorf("%w: %s table of %d buckets has no slot for class %s",
			ErrTableOverflow, dir, len(t.buckets), c.Desc.Upper))
	}
	t.buckets[idx] = insertSorted(m, t.buckets[idx], dir)
}

// precedes orders right chains by ascending nearest word and left chains by
// descending nearest word. A new node goes ahead of equal keys.
func precedes(a, b *matchNode, dir direction) bool {
	ka, kb := side(a.d, dir).NearestWord, side(b.d, dir).NearestWord
	if dir == dirRight {
		return ka <= kb
	}
	return ka >= kb
}

func insertSorted(m, head *matchNode, dir direction) *matchNode {
	if head == nil || precedes(m, head, dir) {
		m.next = head
		return m
	}
	prev := head
	p := head.next
	for p != nil && !precedes(m, p, dir) {
		prev = p
		p = p.next
	}
	m.next = p
	prev.next = m
	return head
}

// chainLen is used by stats and tests.
func chainLen(n *matchNode) int {
	l := 0
	for ; n != nil; n = n.next {
		l++
	}
	return l
}
