package fastmatch

import "github.com/bastiangx/linkmatch/pkg/disjunct"

// defaultSlabChunk is the node count of one slab chunk.
const defaultSlabChunk = 2048

// matchNode is one entry of a bucket chain. ord is the matcher-assigned
// ordinal of the disjunct; both nodes of a two-sided disjunct share it.
type matchNode struct {
	d    *disjunct.Disjunct
	ord  int32
	next *matchNode
}

// nodeSlab hands out matchNodes from fixed-size chunks. Nodes are never
// freed one by one; reset recycles all of them at once.
type nodeSlab struct {
	chunks    [][]matchNode
	chunkSize int
	cur       int
	used      int
	live      int
}

func newNodeSlab(chunkSize int) nodeSlab {
	if chunkSize <= 0 {
		chunkSize = defaultSlabChunk
	}
	return nodeSlab{chunkSize: chunkSize}
}

func (s *nodeSlab) alloc(d *disjunct.Disjunct, ord int32) *matchNode {
	if s.cur == len(s.chunks) {
		s.chunks = append(s.chunks, make([]matchNode, s.chunkSize))
	}
	n := &s.chunks[s.cur][s.used]
	*n = matchNode{d: d, ord: ord}
	s.used++
	s.live++
	if s.used == s.chunkSize {
		s.cur++
		s.used = 0
	}
	return n
}

// reset makes every node available again, keeping the chunks.
func (s *nodeSlab) reset() {
	for i := 0; i <= s.cur && i < len(s.chunks); i++ {
		clear(s.chunks[i])
	}
	s.cur, s.used, s.live = 0, 0, 0
}

func (s *nodeSlab) release() {
	s.chunks = nil
	s.cur, s.used, s.live = 0, 0, 0
}

func (s *nodeSlab) capacity() int {
	return len(s.chunks) * s.chunkSize
}
