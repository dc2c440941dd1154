package connector

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

var (
	ErrEmptyName = errors.New("empty connector name")
	ErrNoUpper   = errors.New("connector name must start with an uppercase letter")
	ErrBadLower  = errors.New("invalid lowercase subtype")
)

// Table interns connector descriptors and assigns dense class ids.
// Both indexes are patricia tries so descriptors of a class can be
// listed by prefix. It is safe for concurrent use.
type Table struct {
	names   *patricia.Trie // full name -> *Descriptor
	classes *patricia.Trie // uppercase part -> uint32 class id
	descs   []*Descriptor
	nclass  uint32
	mu      sync.RWMutex
}

// NewTable creates an empty descriptor table.
func NewTable() *Table {
	return &Table{
		names:   patricia.NewTrie(),
		classes: patricia.NewTrie(),
	}
}

// Split separates a connector name into its uppercase class and lowercase subtype.
func Split(name string) (upper, lower string, err error) {
	if name == "" {
		return "", "", ErrEmptyName
	}
	if name[0] < 'A' || name[0] > 'Z' {
		return "", "", fmt.Errorf("%q: %w", name, ErrNoUpper)
	}
	i := 1
	for i < len(name) && isUpperPart(name[i]) {
		i++
	}
	for j := i; j < len(name); j++ {
		ch := name[j]
		if !(ch >= 'a' && ch <= 'z') && !(ch >= '0' && ch <= '9') && ch != Wildcard {
			return "", "", fmt.Errorf("%q at %d: %w", name, j, ErrBadLower)
		}
	}
	return name[:i], name[i:], nil
}

func isUpperPart(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_'
}

// Intern returns the unique descriptor for name, creating it on first use.
func (t *Table) Intern(name string) (*Descriptor, error) {
	t.mu.RLock()
	if item := t.names.Get(patricia.Prefix(name)); item != nil {
		t.mu.RUnlock()
		return item.(*Descriptor), nil
	}
	t.mu.RUnlock()

	upper, lower, err := Split(name)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// lost a race with another Intern of the same name
	if item := t.names.Get(patricia.Prefix(name)); item != nil {
		return item.(*Descriptor), nil
	}

	var class uint32
	if item := t.classes.Get(patricia.Prefix(upper)); item != nil {
		class = item.(uint32)
	} else {
		class = t.nclass
		t.nclass++
		t.classes.Insert(patricia.Prefix(upper), class)
		log.Debugf("new connector class %s -> %d", upper, class)
	}

	d := &Descriptor{
		String:  name,
		Upper:   upper,
		Lower:   lower,
		ClassID: class,
		Hash:    classHash(upper),
	}
	t.names.Insert(patricia.Prefix(name), d)
	t.descs = append(t.descs, d)
	return d, nil
}

// MustIntern is Intern for names known to be valid, such as literals in tests.
func (t *Table) MustIntern(name string) *Descriptor {
	d, err := t.Intern(name)
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup returns the descriptor for name if it has been interned.
func (t *Table) Lookup(name string) (*Descriptor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	item := t.names.Get(patricia.Prefix(name))
	if item == nil {
		return nil, false
	}
	return item.(*Descriptor), true
}

// NumClasses is the number of distinct uppercase classes interned so far.
func (t *Table) NumClasses() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int(t.nclass)
}

// NumDescriptors is the number of distinct connector names interned so far.
func (t *Table) NumDescriptors() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.descs)
}

// WithPrefix lists the interned descriptors whose full name starts with prefix,
// in lexical order.
func (t *Table) WithPrefix(prefix string) []*Descriptor {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []*Descriptor
	err := t.names.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		out = append(out, item.(*Descriptor))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting descriptor subtree: %v", err)
	}
	return out
}

func classHash(upper string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(upper))
	return h.Sum32()
}
