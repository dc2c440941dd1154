// Package disjunct holds the candidate linking patterns of the words of a sentence.
package disjunct

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/lattice"
)

var (
	ErrEmptyDisjunct = errors.New("disjunct has no connectors")
	ErrDirection     = errors.New("connector must end in '-' or '+'")
	ErrLengthLimit   = errors.New("invalid length limit")
)

// Disjunct is one way a word can link to its neighbours.
// Left and Right are chains whose heads are the farthest-reaching connectors.
type Disjunct struct {
	Left  *connector.Connector
	Right *connector.Connector
	Cost  float64
	Word  int
}

// Parse builds a disjunct from notation such as "@A- Ds- Ss+ O+{3}".
//
// Connectors are written in the left-to-right order of the words they link
// to: "A- D-" means A links farther left than D, "S+ O+" means S links nearer
// on the right than O. A leading '@' marks a multi-connector and a trailing
// "{n}" limits the link to n words.
func Parse(table *connector.Table, notation string, cost float64) (*Disjunct, error) {
	fields := strings.Fields(notation)
	if len(fields) == 0 {
		return nil, ErrEmptyDisjunct
	}

	var lefts, rights []*connector.Connector
	for _, f := range fields {
		c, dir, err := parseConnector(table, f)
		if err != nil {
			return nil, fmt.Errorf("disjunct %q: %w", notation, err)
		}
		if dir == '-' {
			lefts = append(lefts, c)
		} else {
			rights = append(rights, c)
		}
	}

	d := &Disjunct{Cost: cost}
	// Left is already farthest first.
	d.Left = link(lefts)
	// Right must be reversed so the farthest one heads the chain.
	for i, j := 0, len(rights)-1; i < j; i, j = i+1, j-1 {
		rights[i], rights[j] = rights[j], rights[i]
	}
	d.Right = link(rights)
	return d, nil
}

// MustParse is Parse for notation known to be valid.
func MustParse(table *connector.Table, notation string, cost float64) *Disjunct {
	d, err := Parse(table, notation, cost)
	if err != nil {
		panic(err)
	}
	return d
}

func parseConnector(table *connector.Table, tok string) (*connector.Connector, byte, error) {
	multi := false
	if strings.HasPrefix(tok, "@") {
		multi = true
		tok = tok[1:]
	}

	limit := connector.Unlimited
	if i := strings.IndexByte(tok, '{'); i >= 0 {
		if !strings.HasSuffix(tok, "}") {
			return nil, 0, fmt.Errorf("%q: %w", tok, ErrLengthLimit)
		}
		n, err := strconv.Atoi(tok[i+1 : len(tok)-1])
		if err != nil || n < 1 {
			return nil, 0, fmt.Errorf("%q: %w", tok, ErrLengthLimit)
		}
		limit = n
		tok = tok[:i]
	}

	if len(tok) < 2 {
		return nil, 0, fmt.Errorf("%q: %w", tok, ErrDirection)
	}
	dir := tok[len(tok)-1]
	if dir != '-' && dir != '+' {
		return nil, 0, fmt.Errorf("%q: %w", tok, ErrDirection)
	}

	desc, err := table.Intern(tok[:len(tok)-1])
	if err != nil {
		return nil, 0, err
	}
	c := connector.New(desc)
	c.Multi = multi
	c.LengthLimit = limit
	return c, dir, nil
}

func link(cs []*connector.Connector) *connector.Connector {
	for i := 0; i+1 < len(cs); i++ {
		cs[i].Next = cs[i+1]
	}
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

func (d *Disjunct) String() string {
	var parts []string
	for c := d.Left; c != nil; c = c.Next {
		parts = append(parts, notate(c, '-'))
	}
	var rights []string
	for c := d.Right; c != nil; c = c.Next {
		rights = append(rights, notate(c, '+'))
	}
	for i := len(rights) - 1; i >= 0; i-- {
		parts = append(parts, rights[i])
	}
	return strings.Join(parts, " ")
}

func notate(c *connector.Connector, dir byte) string {
	var sb strings.Builder
	if c.Multi {
		sb.WriteByte('@')
	}
	sb.WriteString(c.Desc.String)
	sb.WriteByte(dir)
	if c.LengthLimit != connector.Unlimited {
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(c.LengthLimit))
		sb.WriteByte('}')
	}
	return sb.String()
}

// SetOrigins attaches the lattice nodes the disjunct's connectors came from.
func (d *Disjunct) SetOrigins(nodes ...*lattice.Node) {
	for c := d.Left; c != nil; c = c.Next {
		c.Origins = nodes
	}
	for c := d.Right; c != nil; c = c.Next {
		c.Origins = nodes
	}
}
