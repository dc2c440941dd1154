package fastmatch

import (
	"fmt"

	"github.com/bastiangx/linkmatch/pkg/disjunct"
)

const (
	// DefaultInitialListSize is the initial entry capacity of the arena.
	// Only long or ambiguous sentences push past a couple of thousand entries.
	DefaultInitialListSize = 4096
	// DefaultGrowthFactor multiplies the arena capacity when it fills up.
	DefaultGrowthFactor = 2
)

// Position is the index of a match list in the arena. It stays valid
// across arena growth.
type Position int

// Match is one entry of a match list. Left and Right report which of the
// query connectors the disjunct matched. The zero Match terminates a list.
type Match struct {
	Disjunct *disjunct.Disjunct
	Left     bool
	Right    bool
}

// Arena is a stack of match lists, each ended by a zero Match.
type Arena struct {
	entries   []Match
	growth    int
	highWater int
	grows     int
}

// NewArena returns an arena with room for initial entries that grows by
// factor when full.
func NewArena(initial, factor int) *Arena {
	if initial <= 0 {
		initial = DefaultInitialListSize
	}
	if factor < 2 {
		factor = DefaultGrowthFactor
	}
	return &Arena{
		entries: make([]Match, 0, initial),
		growth:  factor,
	}
}

// Push appends one entry, growing the backing array geometrically.
func (a *Arena) Push(m Match) {
	if len(a.entries) == cap(a.entries) {
		a.grow()
	}
	a.entries = append(a.entries, m)
	if len(a.entries) > a.highWater {
		a.highWater = len(a.entries)
	}
}

func (a *Arena) grow() {
	size := max(cap(a.entries), 1) * a.growth
	next := make([]Match, len(a.entries), size)
	copy(next, a.entries)
	a.entries = next
	a.grows++
}

// Terminate pushes the list terminator.
func (a *Arena) Terminate() {
	a.Push(Match{})
}

// Mark returns the position the next list will start at.
func (a *Arena) Mark() Position {
	return Position(len(a.entries))
}

// Rewind discards every entry at or above p.
func (a *Arena) Rewind(p Position) {
	if p < 0 || int(p) > len(a.entries) {
		panic(fmt.Sprintf("fastmatch: rewind to %d outside arena of %d entries", p, len(a.entries)))
	}
	clear(a.entries[p:])
	a.entries = a.entries[:p]
}

// IsEmpty reports whether the list at p has no entries.
func (a *Arena) IsEmpty(p Position) bool {
	return int(p) >= len(a.entries) || a.entries[p].Disjunct == nil
}

// Each calls fn for every entry of the list at p until fn returns false.
// fn may push further lists; entries are re-read after every call so
// growth during iteration is safe.
func (a *Arena) Each(p Position, fn func(Match) bool) {
	for i := int(p); i < len(a.entries); i++ {
		m := a.entries[i]
		if m.Disjunct == nil {
			return
		}
		if !fn(m) {
			return
		}
	}
}

// List returns the entries of the list at p without the terminator.
// The slice aliases the arena and is only valid until the next push or
// rewind.
func (a *Arena) List(p Position) []Match {
	end := int(p)
	for end < len(a.entries) && a.entries[end].Disjunct != nil {
		end++
	}
	return a.entries[p:end:end]
}

// Len is the number of entries currently on the stack, terminators included.
func (a *Arena) Len() int {
	return len(a.entries)
}

// Cap is the current capacity of the backing array.
func (a *Arena) Cap() int {
	return cap(a.entries)
}

// Reset empties the stack and keeps its capacity.
func (a *Arena) Reset() {
	a.Rewind(0)
}

// release drops the backing array.
func (a *Arena) release() {
	a.entries = nil
}

func (a *Arena) setRight(i int) {
	a.entries[i].Right = true
}
