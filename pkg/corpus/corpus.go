/*
Package corpus reads and writes sentence fixtures: words with their candidate
disjuncts and the word-graph splits they came from.

Fixtures are written by hand in YAML and stored as msgpack, optionally zstd
compressed, for larger test corpora. The format follows the file extension:

	.yaml .yml   YAML
	.mpk         msgpack
	.mpk.zst     zstd-compressed msgpack
*/
package corpus

import (
	"errors"
	"fmt"

	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/bastiangx/linkmatch/pkg/lattice"
)

var (
	ErrNoWords  = errors.New("sentence has no words")
	ErrBadAlt   = errors.New("alternative reference out of range")
	ErrBadSplit = errors.New("split needs at least one alternative")
)

// File is a set of sentences sharing one connector table.
type File struct {
	Sentences []SentenceSpec `yaml:"sentences" msgpack:"sentences"`
}

// SentenceSpec describes one sentence.
type SentenceSpec struct {
	Name   string      `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Splits []SplitSpec `yaml:"splits,omitempty" msgpack:"splits,omitempty"`
	Words  []WordSpec  `yaml:"words" msgpack:"words"`
}

// SplitSpec declares a token split into mutually exclusive alternatives.
// Within nests the split inside an alternative of an earlier split.
type SplitSpec struct {
	Token        string  `yaml:"token" msgpack:"token"`
	Alternatives int     `yaml:"alternatives" msgpack:"alternatives"`
	Within       *AltRef `yaml:"within,omitempty" msgpack:"within,omitempty"`
}

// AltRef picks alternative Choice of split Split.
type AltRef struct {
	Split  int `yaml:"split" msgpack:"split"`
	Choice int `yaml:"choice" msgpack:"choice"`
}

// WordSpec is one word. Words without Alt are original tokens.
type WordSpec struct {
	Word      string         `yaml:"word" msgpack:"word"`
	Alt       *AltRef        `yaml:"alt,omitempty" msgpack:"alt,omitempty"`
	Disjuncts []DisjunctSpec `yaml:"disjuncts" msgpack:"disjuncts"`
}

// DisjunctSpec holds a disjunct in notation form, e.g. "Wd- Ss+ O+{3}".
type DisjunctSpec struct {
	Conns string  `yaml:"conns" msgpack:"conns"`
	Cost  float64 `yaml:"cost,omitempty" msgpack:"cost,omitempty"`
}

// Build creates and finalizes the sentence, interning connectors in table.
func (s *SentenceSpec) Build(table *connector.Table) (*disjunct.Sentence, error) {
	if len(s.Words) == 0 {
		return nil, fmt.Errorf("%s: %w", s.label(), ErrNoWords)
	}
	sent := disjunct.NewSentence(table)

	alts := make([][]*lattice.Alternative, len(s.Splits))
	for i, sp := range s.Splits {
		if sp.Alternatives < 1 {
			return nil, fmt.Errorf("%s: split %d %q: %w", s.label(), i, sp.Token, ErrBadSplit)
		}
		var parent *lattice.Node
		if sp.Within != nil {
			a, err := pick(alts[:i], *sp.Within)
			if err != nil {
				return nil, fmt.Errorf("%s: split %d: %w", s.label(), i, err)
			}
			parent = a.Word(sp.Token)
		} else {
			parent = sent.Lattice.Original(sp.Token)
		}
		alts[i] = sent.Lattice.Split(parent, sp.Alternatives)
	}

	for i, ws := range s.Words {
		var node *lattice.Node
		if ws.Alt != nil {
			a, err := pick(alts, *ws.Alt)
			if err != nil {
				return nil, fmt.Errorf("%s: word %d %q: %w", s.label(), i, ws.Word, err)
			}
			node = a.Word(ws.Word)
		}
		w := sent.AddWord(ws.Word, node)
		for _, ds := range ws.Disjuncts {
			d, err := disjunct.Parse(table, ds.Conns, ds.Cost)
			if err != nil {
				return nil, fmt.Errorf("%s: word %d %q: %w", s.label(), i, ws.Word, err)
			}
			w.Add(d)
		}
	}
	sent.Finalize()
	return sent, nil
}

// Build creates every sentence of the file over one shared table.
func (f *File) Build(table *connector.Table) ([]*disjunct.Sentence, error) {
	out := make([]*disjunct.Sentence, 0, len(f.Sentences))
	for i := range f.Sentences {
		s, err := f.Sentences[i].Build(table)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func pick(alts [][]*lattice.Alternative, ref AltRef) (*lattice.Alternative, error) {
	if ref.Split < 0 || ref.Split >= len(alts) || ref.Choice < 0 || ref.Choice >= len(alts[ref.Split]) {
		return nil, fmt.Errorf("split %d choice %d: %w", ref.Split, ref.Choice, ErrBadAlt)
	}
	return alts[ref.Split][ref.Choice], nil
}

func (s *SentenceSpec) label() string {
	if s.Name != "" {
		return s.Name
	}
	return "sentence"
}
