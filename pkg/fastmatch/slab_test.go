package fastmatch

import (
	"testing"

	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/stretchr/testify/assert"
)

func TestNodeSlab(t *testing.T) {
	s := newNodeSlab(3)
	d := &disjunct.Disjunct{}

	var nodes []*matchNode
	for i := 0; i < 7; i++ {
		nodes = append(nodes, s.alloc(d, int32(i)))
	}
	assert.Equal(t, 7, s.live)
	assert.Equal(t, 9, s.capacity())
	for i, n := range nodes {
		assert.Equal(t, int32(i), n.ord)
		assert.Same(t, d, n.d)
	}
	// earlier chunks never move
	assert.Same(t, &s.chunks[0][0], nodes[0])

	nodes[0].next = nodes[1]
	s.reset()
	assert.Zero(t, s.live)
	assert.Equal(t, 9, s.capacity(), "chunks are kept")
	assert.Nil(t, nodes[0].next)
	assert.Nil(t, nodes[0].d)

	again := s.alloc(d, 42)
	assert.Same(t, nodes[0], again, "reset recycles from the first chunk")

	s.release()
	assert.Zero(t, s.capacity())
}

func TestNodeSlabDefaultChunk(t *testing.T) {
	s := newNodeSlab(0)
	s.alloc(&disjunct.Disjunct{}, 0)
	assert.Equal(t, defaultSlabChunk, s.capacity())
}
