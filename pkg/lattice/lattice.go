/*
Package lattice models the word graph of a sentence: original tokens and the
mutually exclusive alternatives they were split into (competing morphological
or compound splits).

Every alternative gets a numeric id. A node records the alternatives on its
path from an original token, and the sibling alternatives that path rules
out. Two nodes can appear in the same parse only if neither lies on an
alternative the other excludes. Both sets are roaring bitmaps, so the test is
two Intersects calls regardless of nesting depth.
*/
package lattice

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Node is one token of the word graph.
type Node struct {
	ID     int
	Text   string
	Depth  int
	Parent *Node

	alts     *roaring.Bitmap
	excludes *roaring.Bitmap
}

// Alternative is one way of splitting a parent node.
type Alternative struct {
	ID     uint32
	Parent *Node

	graph    *Graph
	alts     *roaring.Bitmap
	excludes *roaring.Bitmap
}

// Graph allocates nodes and alternative ids for one sentence.
type Graph struct {
	nodes   []*Node
	nextAlt uint32
}

// New returns an empty word graph.
func New() *Graph {
	return &Graph{}
}

// Original adds an unsplit token. Original tokens have depth 0 and are
// compatible with every other node.
func (g *Graph) Original(text string) *Node {
	n := &Node{
		ID:       len(g.nodes),
		Text:     text,
		alts:     roaring.New(),
		excludes: roaring.New(),
	}
	g.nodes = append(g.nodes, n)
	return n
}

// Split declares n mutually exclusive alternatives for parent.
// Splits nest: the parent may itself be a node inside an alternative.
func (g *Graph) Split(parent *Node, n int) []*Alternative {
	if n < 1 {
		panic(fmt.Sprintf("lattice: split of %q into %d alternatives", parent.Text, n))
	}
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = g.nextAlt
		g.nextAlt++
	}

	out := make([]*Alternative, n)
	for i, id := range ids {
		alts := parent.alts.Clone()
		alts.Add(id)
		excludes := parent.excludes.Clone()
		for j, other := range ids {
			if j != i {
				excludes.Add(other)
			}
		}
		out[i] = &Alternative{
			ID:       id,
			Parent:   parent,
			graph:    g,
			alts:     alts,
			excludes: excludes,
		}
	}
	return out
}

// Word adds a token belonging to this alternative.
func (a *Alternative) Word(text string) *Node {
	n := &Node{
		ID:       len(a.graph.nodes),
		Text:     text,
		Depth:    a.Parent.Depth + 1,
		Parent:   a.Parent,
		alts:     a.alts,
		excludes: a.excludes,
	}
	a.graph.nodes = append(a.graph.nodes, n)
	return n
}

// Len is the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) *Node {
	return g.nodes[id]
}

// Alternatives lists the alternative ids on the node's path.
func (n *Node) Alternatives() []uint32 {
	return n.alts.ToArray()
}

func (n *Node) String() string {
	return fmt.Sprintf("%s#%d@%d", n.Text, n.ID, n.Depth)
}

// InSameAlternative reports whether a and b can both be part of one path
// through the word graph.
func InSameAlternative(a, b *Node) bool {
	if a == b {
		return true
	}
	return !a.alts.Intersects(b.excludes) && !b.alts.Intersects(a.excludes)
}
