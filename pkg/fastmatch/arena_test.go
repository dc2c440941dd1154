package fastmatch

import (
	"testing"

	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(word int) Match {
	return Match{Disjunct: &disjunct.Disjunct{Word: word}, Left: true}
}

func pushList(a *Arena, words ...int) Position {
	p := a.Mark()
	for _, w := range words {
		a.Push(entry(w))
	}
	a.Terminate()
	return p
}

func listWords(ms []Match) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.Disjunct.Word
	}
	return out
}

func TestArenaDefaults(t *testing.T) {
	a := NewArena(0, 1)
	assert.Equal(t, DefaultInitialListSize, a.Cap())
	assert.Equal(t, DefaultGrowthFactor, a.growth)
	assert.Zero(t, a.Len())
}

func TestArenaGrowthKeepsPositions(t *testing.T) {
	a := NewArena(2, 3)
	p1 := pushList(a, 1, 2, 3)
	assert.Equal(t, 6, a.Cap(), "grew once by a factor of 3")
	p2 := pushList(a, 4, 5, 6, 7)
	assert.Equal(t, 18, a.Cap())
	assert.Equal(t, 2, a.grows)

	assert.Equal(t, []int{1, 2, 3}, listWords(a.List(p1)))
	assert.Equal(t, []int{4, 5, 6, 7}, listWords(a.List(p2)))
	assert.Equal(t, 9, a.highWater)
}

func TestArenaRewind(t *testing.T) {
	a := NewArena(4, 2)
	p1 := pushList(a, 1)
	mark := a.Mark()
	pushList(a, 2, 3)
	pushList(a, 4)

	a.Rewind(mark)
	assert.Equal(t, int(mark), a.Len())
	assert.Equal(t, []int{1}, listWords(a.List(p1)))

	// rewound slots are cleared
	full := a.entries[:cap(a.entries)]
	for i := int(mark); i < cap(a.entries); i++ {
		assert.Nil(t, full[i].Disjunct)
	}

	assert.Panics(t, func() { a.Rewind(Position(a.Len() + 1)) })
	assert.Panics(t, func() { a.Rewind(-1) })

	a.Reset()
	assert.Zero(t, a.Len())
	assert.Equal(t, 8, a.Cap(), "reset keeps capacity")
}

func TestArenaEmptyList(t *testing.T) {
	a := NewArena(4, 2)
	p := pushList(a)
	assert.True(t, a.IsEmpty(p))
	assert.Empty(t, a.List(p))
	assert.True(t, a.IsEmpty(a.Mark()), "nothing pushed yet")

	q := pushList(a, 9)
	assert.False(t, a.IsEmpty(q))
}

func TestArenaListIsCapped(t *testing.T) {
	a := NewArena(8, 2)
	p := pushList(a, 1, 2)
	l := a.List(p)
	require.Len(t, l, 2)
	assert.Equal(t, 2, cap(l), "appending to a list copies instead of clobbering the terminator")
}

func TestArenaEachNestedPushes(t *testing.T) {
	a := NewArena(2, 2)
	outer := pushList(a, 1, 2, 3)

	var seen []int
	a.Each(outer, func(m Match) bool {
		seen = append(seen, m.Disjunct.Word)
		// push enough to force growth while iterating
		inner := pushList(a, 10, 11, 12, 13)
		assert.Equal(t, []int{10, 11, 12, 13}, listWords(a.List(inner)))
		return true
	})
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Greater(t, a.grows, 0)
}

func TestArenaEachStops(t *testing.T) {
	a := NewArena(8, 2)
	p := pushList(a, 1, 2, 3)
	n := 0
	a.Each(p, func(Match) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)
}

func TestMatcherScope(t *testing.T) {
	s := buildSentence(t, []string{"A+"}, []string{"A-"}, []string{})
	m := newTestMatcher(s)
	lc := s.Words[0].Disjuncts[0].Right

	outer := m.Scope()
	p := m.FormMatchList(1, lc, 0, nil, 2)
	func() {
		release := m.Scope()
		defer release()
		m.FormMatchList(1, lc, 0, nil, 2)
		m.FormMatchList(1, lc, 0, nil, 2)
	}()
	assert.Equal(t, 2, m.Arena().Len(), "inner scope rewound")
	assert.Len(t, m.List(p), 1)
	outer()
	assert.Zero(t, m.Arena().Len())
}
