package fastmatch

import (
	"fmt"
	"strings"

	"github.com/bastiangx/linkmatch/pkg/connector"
)

// FormatMatchList renders the list at p one entry per line:
//
//	lw>lc  [=]  left<w>right  [=]  rc<rw
//
// where '=' marks the side that matched.
func (m *Matcher) FormatMatchList(p Position, w int, lc *connector.Connector, lw int, rc *connector.Connector, rw int) string {
	var sb strings.Builder
	m.arena.Each(p, func(mt Match) bool {
		fmt.Fprintf(&sb, "%02d>%-9s %c %9s<%02d>%-9s %c %9s<%02d\n",
			lw, connName(lc), mark(mt.Left),
			connector.ChainString(mt.Disjunct.Left), w, connector.ChainString(mt.Disjunct.Right),
			mark(mt.Right), connName(rc), rw)
		return true
	})
	return sb.String()
}

// DumpMatchList logs the list at p at debug level.
func (m *Matcher) DumpMatchList(p Position, w int, lc *connector.Connector, lw int, rc *connector.Connector, rw int) {
	if m.arena.IsEmpty(p) {
		m.log.Debug("match list empty", "w", w, "lc", connName(lc), "rc", connName(rc))
		return
	}
	m.log.Debugf("match list w=%d\n%s", w, m.FormatMatchList(p, w, lc, lw, rc, rw))
}

func connName(c *connector.Connector) string {
	if c == nil {
		return ""
	}
	return c.Desc.String
}

func mark(b bool) byte {
	if b {
		return '='
	}
	return ' '
}
