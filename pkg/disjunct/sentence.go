package disjunct

import (
	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/lattice"
)

// Word is one position of a sentence with its candidate disjuncts.
type Word struct {
	Text      string
	Node      *lattice.Node
	Disjuncts []*Disjunct
}

// Add appends d to the word's candidates.
func (w *Word) Add(ds ...*Disjunct) {
	w.Disjuncts = append(w.Disjuncts, ds...)
}

// Sentence owns the words, their disjuncts and the word graph they came from.
type Sentence struct {
	Words   []*Word
	Table   *connector.Table
	Lattice *lattice.Graph
}

// NewSentence creates an empty sentence whose connectors are interned in table.
func NewSentence(table *connector.Table) *Sentence {
	return &Sentence{
		Table:   table,
		Lattice: lattice.New(),
	}
}

// AddWord appends a word. A nil node makes it an original, unsplit token.
func (s *Sentence) AddWord(text string, node *lattice.Node) *Word {
	if node == nil {
		node = s.Lattice.Original(text)
	}
	w := &Word{Text: text, Node: node}
	s.Words = append(s.Words, w)
	return w
}

// Len is the number of words.
func (s *Sentence) Len() int {
	return len(s.Words)
}

// NumDisjuncts counts the disjuncts over all words.
func (s *Sentence) NumDisjuncts() int {
	n := 0
	for _, w := range s.Words {
		n += len(w.Disjuncts)
	}
	return n
}

// Finalize prepares disjuncts for matching once all words are added.
// It records word indexes and sets each connector's nearest reachable word
// from its chain position. Connectors without origins get the word's
// lattice node.
func (s *Sentence) Finalize() {
	for wi, w := range s.Words {
		for _, d := range w.Disjuncts {
			d.Word = wi
			k := d.Left.Len()
			for c := d.Left; c != nil; c = c.Next {
				setOrigin(c, w)
				c.NearestWord = wi - k
				k--
			}
			k = d.Right.Len()
			for c := d.Right; c != nil; c = c.Next {
				setOrigin(c, w)
				c.NearestWord = wi + k
				k--
			}
		}
	}
}

func setOrigin(c *connector.Connector, w *Word) {
	if len(c.Origins) == 0 && w.Node != nil {
		c.Origins = []*lattice.Node{w.Node}
	}
}
