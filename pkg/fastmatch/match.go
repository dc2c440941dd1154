package fastmatch

import "github.com/bastiangx/linkmatch/pkg/connector"

// FormMatchList pushes onto the arena the disjuncts of word w that can link
// to lc (a right-pointing connector of word lw < w) and/or rc (a
// left-pointing connector of word rw > w), and returns the list position.
// Either connector may be nil.
//
// A disjunct appears once. Left is set when its left chain head matches lc,
// Right when its right chain head matches rc. When lc is non-nil only
// disjuncts matching lc are returned, because a disjunct that leaves lc
// unlinked contributes no linkage through w anyway.
func (m *Matcher) FormMatchList(w int, lc *connector.Connector, lw int, rc *connector.Connector, rw int) Position {
	m.mustLive()
	m.queries++
	front := m.arena.Mark()

	var ml, mr *matchNode
	if lc != nil && w-lw <= lc.LengthLimit {
		ml = m.left[w].lookup(lc, dirLeft)
	}
	if lc != nil && ml == nil {
		return m.terminate(front, w, lc, lw, rc, rw)
	}

	if rc != nil && rw-w <= rc.LengthLimit {
		mr = m.right[w].lookup(rc, dirRight)
	}
	if ml == nil && mr == nil {
		return m.terminate(front, w, lc, lw, rc, rw)
	}

	gen := m.nextGeneration()

	m.mc.reset()
	m.ac.reset()
	for mx := ml; mx != nil; mx = mx.next {
		c := mx.d.Left
		if c.NearestWord < lw {
			break
		}
		if w-lw > c.LengthLimit {
			continue
		}
		if !m.mc.matches(c, lc, m.opts.lower) || !m.ac.possible(c, lc) {
			continue
		}
		m.stamp[mx.ord] = gen
		m.slot[mx.ord] = int32(m.arena.Len())
		m.arena.Push(Match{Disjunct: mx.d, Left: true})
	}

	if lc != nil && m.arena.IsEmpty(front) {
		return m.terminate(front, w, lc, lw, rc, rw)
	}

	m.mc.reset()
	m.ac.reset()
	for mx := mr; mx != nil; mx = mx.next {
		c := mx.d.Right
		if c.NearestWord > rw {
			break
		}
		if rw-w > c.LengthLimit {
			continue
		}
		matchedLeft := m.stamp[mx.ord] == gen
		if lc != nil && !matchedLeft {
			continue
		}
		if !m.mc.matches(c, rc, m.opts.lower) || !m.ac.possible(c, rc) {
			continue
		}
		if matchedLeft {
			m.arena.setRight(int(m.slot[mx.ord]))
			continue
		}
		m.arena.Push(Match{Disjunct: mx.d, Right: true})
	}

	return m.terminate(front, w, lc, lw, rc, rw)
}

func (m *Matcher) terminate(front Position, w int, lc *connector.Connector, lw int, rc *connector.Connector, rw int) Position {
	m.arena.Terminate()
	if m.opts.verbosity >= DumpVerbosity {
		m.DumpMatchList(front, w, lc, lw, rc, rw)
	}
	return front
}
