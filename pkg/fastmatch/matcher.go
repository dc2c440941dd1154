package fastmatch

import (
	"errors"

	"github.com/bastiangx/linkmatch/internal/logger"
	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/charmbracelet/log"
)

// ErrTableOverflow reports a bucket probe that found no slot. Tables are
// sized so this cannot happen; it is raised as a panic.
var ErrTableOverflow = errors.New("fastmatch: match table overflow")

// Matcher is the per-sentence match index plus its match-list arena.
type Matcher struct {
	sent  *disjunct.Sentence
	left  []table
	right []table
	slab  nodeSlab
	arena *Arena

	// stamp[ord] == gen marks disjuncts that matched left in the running
	// query; slot[ord] is the arena index of their entry.
	stamp []uint32
	slot  []int32
	gen   uint32

	mc   matchCache
	ac   altCache
	opts options
	log  *log.Logger

	queries uint64
	freed   bool
}

// Stats describes the matcher's tables and arena.
type Stats struct {
	Words          int
	Disjuncts      int
	LeftBuckets    int
	RightBuckets   int
	Nodes          int
	SlabCapacity   int
	LongestChain   int
	ArenaCap       int
	ArenaHighWater int
	ArenaGrows     int
	Queries        uint64
	MatchHits      uint64
	MatchMisses    uint64
	AltHits        uint64
}

// New builds the match tables for sent.
func New(sent *disjunct.Sentence, opts ...Option) *Matcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := o.logger
	if l == nil {
		l = logger.New("fastmatch")
	}
	if o.verbosity >= DumpVerbosity && l.GetLevel() > log.DebugLevel {
		// dumps go out at debug level; raise a copy, not the caller's logger
		l = l.With()
		l.SetLevel(log.DebugLevel)
	}

	m := &Matcher{
		slab:  newNodeSlab(o.slabChunk),
		arena: NewArena(o.initialListSize, o.growthFactor),
		opts:  o,
		log:   l,
	}
	m.build(sent)
	return m
}

// Reset rebuilds the tables for sent, which may be the same sentence with
// changed disjunct lists. Table storage, slab chunks and arena capacity are
// reused.
func (m *Matcher) Reset(sent *disjunct.Sentence) {
	m.mustLive()
	m.slab.reset()
	m.arena.Reset()
	m.build(sent)
}

// Free releases the tables, the node slab and the arena. The matcher must
// not be used afterwards.
func (m *Matcher) Free() {
	if m.freed {
		return
	}
	m.log.Debug("freeing matcher", "words", len(m.left), "arena", m.arena.Cap(), "high", m.arena.highWater)
	m.left, m.right = nil, nil
	m.slab.release()
	m.arena.release()
	m.stamp, m.slot = nil, nil
	m.sent = nil
	m.freed = true
}

func (m *Matcher) mustLive() {
	if m.freed {
		panic("fastmatch: use of freed matcher")
	}
}

func (m *Matcher) build(sent *disjunct.Sentence) {
	m.sent = sent
	n := sent.Len()
	m.left = resizeTables(m.left, n)
	m.right = resizeTables(m.right, n)

	numClasses := sent.Table.NumClasses()
	ord := int32(0)
	for w, word := range sent.Words {
		nl, nr := 0, 0
		for _, d := range word.Disjuncts {
			if d.Left != nil {
				nl++
			}
			if d.Right != nil {
				nr++
			}
		}
		m.left[w].resize(tableSize(numClasses, nl))
		m.right[w].resize(tableSize(numClasses, nr))

		for _, d := range word.Disjuncts {
			if d.Left != nil {
				m.left[w].insert(m.slab.alloc(d, ord), dirLeft)
			}
			if d.Right != nil {
				m.right[w].insert(m.slab.alloc(d, ord), dirRight)
			}
			ord++
		}
	}

	if cap(m.stamp) >= int(ord) {
		m.stamp = m.stamp[:ord]
		m.slot = m.slot[:ord]
	} else {
		m.stamp = make([]uint32, ord)
		m.slot = make([]int32, ord)
	}
	clear(m.stamp)
	m.gen = 0

	m.log.Debug("built match tables", "words", n, "disjuncts", ord, "nodes", m.slab.live)
}

func resizeTables(ts []table, n int) []table {
	if cap(ts) >= n {
		ts = ts[:n]
		return ts
	}
	next := make([]table, n)
	copy(next, ts)
	return next
}

// nextGeneration invalidates all stamps of the previous query.
func (m *Matcher) nextGeneration() uint32 {
	m.gen++
	if m.gen == 0 {
		clear(m.stamp)
		m.gen = 1
	}
	return m.gen
}

// Sentence returns the sentence the tables were built from.
func (m *Matcher) Sentence() *disjunct.Sentence {
	return m.sent
}

// Arena exposes the match-list stack.
func (m *Matcher) Arena() *Arena {
	return m.arena
}

// Mark records the current top of the match-list stack.
func (m *Matcher) Mark() Position {
	return m.arena.Mark()
}

// Rewind pops every list pushed after p was marked.
func (m *Matcher) Rewind(p Position) {
	m.arena.Rewind(p)
}

// Scope marks the arena and returns the function that rewinds to the mark.
//
//	release := m.Scope()
//	defer release()
func (m *Matcher) Scope() (release func()) {
	p := m.arena.Mark()
	return func() { m.arena.Rewind(p) }
}

// IsEmpty reports whether the list at p is empty.
func (m *Matcher) IsEmpty(p Position) bool {
	return m.arena.IsEmpty(p)
}

// List returns the entries of the list at p; see Arena.List.
func (m *Matcher) List(p Position) []Match {
	return m.arena.List(p)
}

// Each iterates the list at p; see Arena.Each.
func (m *Matcher) Each(p Position, fn func(Match) bool) {
	m.arena.Each(p, fn)
}

// Stats reports table and arena figures.
func (m *Matcher) Stats() Stats {
	s := Stats{
		Words:          len(m.left),
		Disjuncts:      len(m.stamp),
		Nodes:          m.slab.live,
		SlabCapacity:   m.slab.capacity(),
		ArenaCap:       m.arena.Cap(),
		ArenaHighWater: m.arena.highWater,
		ArenaGrows:     m.arena.grows,
		Queries:        m.queries,
		MatchHits:      m.mc.hits,
		MatchMisses:    m.mc.misses,
		AltHits:        m.ac.hits,
	}
	for w := range m.left {
		s.LeftBuckets += len(m.left[w].buckets)
		s.RightBuckets += len(m.right[w].buckets)
		for _, ts := range [][]*matchNode{m.left[w].buckets, m.right[w].buckets} {
			for _, head := range ts {
				s.LongestChain = max(s.LongestChain, chainLen(head))
			}
		}
	}
	return s
}
