// Package cli handles the interactive match-list console used for debugging
// fixtures and the matcher in real time.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/bastiangx/linkmatch/pkg/fastmatch"
	"github.com/bastiangx/linkmatch/pkg/search"
	"github.com/charmbracelet/log"
)

var errQuit = errors.New("quit")

// InputHandler reads console commands and runs them against a set of
// sentences, one of which is selected at a time.
type InputHandler struct {
	sents   []*disjunct.Sentence
	names   []string
	opts    []fastmatch.Option
	timeout time.Duration
	out     *log.Logger

	cur     int
	matcher *fastmatch.Matcher
	counter *search.Counter

	requestCount int
}

// NewInputHandler creates a console over sents. names labels them in listings
// and may be shorter than sents.
func NewInputHandler(sents []*disjunct.Sentence, names []string, timeout time.Duration, out *log.Logger, opts ...fastmatch.Option) *InputHandler {
	return &InputHandler{
		sents:   sents,
		names:   names,
		opts:    opts,
		timeout: timeout,
		out:     out,
		cur:     -1,
	}
}

// Start begins the console loop. It returns nil on "quit" or end of input.
func (h *InputHandler) Start(r io.Reader) error {
	h.out.Print("linkmatch console [DBG]")
	h.out.Print("type 'help' for commands (Ctrl+D to exit):")
	if len(h.sents) > 0 {
		h.use(0)
	}
	defer h.close()

	scanner := bufio.NewScanner(r)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := h.handleInput(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			h.out.Errorf("%v", err)
		}
	}
}

func (h *InputHandler) handleInput(line string) error {
	h.requestCount++
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help", "?":
		h.out.Print(helpText)
	case "quit", "exit", "q":
		return errQuit
	case "list", "ls":
		h.list()
	case "use":
		if len(args) != 1 {
			return fmt.Errorf("usage: use <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 || n >= len(h.sents) {
			return fmt.Errorf("no sentence %q", args[0])
		}
		h.use(n)
	case "words", "w":
		return h.words()
	case "classes":
		return h.classes(args)
	case "match", "m":
		return h.match(args)
	case "count", "c":
		return h.count()
	case "stats":
		return h.stats()
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	return nil
}

const helpText = `commands:
  list                      list sentences
  use <n>                   select sentence n
  words                     show the words and their disjuncts
  classes [prefix]          show interned connector names
  match <w> <lc> <lw> <rc> <rw>
                            match list of word w; '-' leaves a side empty
  count                     count linkages of the sentence
  stats                     matcher figures
  quit`

func (h *InputHandler) use(n int) {
	h.close()
	h.cur = n
	h.matcher = fastmatch.New(h.sents[n], h.opts...)
	h.counter = search.NewCounter(h.matcher)
	h.out.Printf("using sentence %d: %s", n, sentenceText(h.sents[n]))
}

func (h *InputHandler) close() {
	if h.matcher != nil {
		h.matcher.Free()
		h.matcher, h.counter = nil, nil
	}
}

func (h *InputHandler) selected() (*disjunct.Sentence, error) {
	if h.matcher == nil {
		return nil, errors.New("no sentence selected")
	}
	return h.sents[h.cur], nil
}

func (h *InputHandler) name(i int) string {
	if i < len(h.names) && h.names[i] != "" {
		return h.names[i]
	}
	return fmt.Sprintf("#%d", i)
}

func (h *InputHandler) list() {
	for i, s := range h.sents {
		marker := " "
		if i == h.cur {
			marker = "*"
		}
		h.out.Printf("%s%2d. %-20s %s", marker, i, h.name(i), dim(sentenceText(s)))
	}
}

func (h *InputHandler) words() error {
	s, err := h.selected()
	if err != nil {
		return err
	}
	for i, w := range s.Words {
		h.out.Printf("%2d %s", i, word(w.Text))
		for _, d := range w.Disjuncts {
			h.out.Printf("     %s %s", disjunctText(d.String()), dim(fmt.Sprintf("%.2f", d.Cost)))
		}
	}
	return nil
}

func (h *InputHandler) classes(args []string) error {
	s, err := h.selected()
	if err != nil {
		return err
	}
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	descs := s.Table.WithPrefix(prefix)
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.String
	}
	h.out.Printf("%d connectors, %d classes: %s", len(descs), s.Table.NumClasses(), strings.Join(names, " "))
	return nil
}

func (h *InputHandler) match(args []string) error {
	s, err := h.selected()
	if err != nil {
		return err
	}
	if len(args) != 5 {
		return errors.New("usage: match <w> <lc> <lw> <rc> <rw>")
	}
	var nums [3]int
	for i, a := range []string{args[0], args[2], args[4]} {
		if nums[i], err = strconv.Atoi(a); err != nil {
			return fmt.Errorf("%q is not a word index", a)
		}
	}
	w, lw, rw := nums[0], nums[1], nums[2]
	if w < 0 || w >= s.Len() {
		return fmt.Errorf("word %d outside sentence of %d words", w, s.Len())
	}
	lc, err := queryConnector(s.Table, args[1])
	if err != nil {
		return err
	}
	rc, err := queryConnector(s.Table, args[3])
	if err != nil {
		return err
	}

	release := h.matcher.Scope()
	defer release()
	start := time.Now()
	p := h.matcher.FormMatchList(w, lc, lw, rc, rw)
	elapsed := time.Since(start)

	if h.matcher.IsEmpty(p) {
		h.out.Warnf("No matches for word %d (%s)", w, s.Words[w].Text)
		return nil
	}
	list := h.matcher.List(p)
	h.out.Printf("Found %d matches for word %d (%s) in %v:", len(list), w, s.Words[w].Text, elapsed)
	for _, line := range strings.Split(strings.TrimRight(h.matcher.FormatMatchList(p, w, lc, lw, rc, rw), "\n"), "\n") {
		h.out.Print(line)
	}
	return nil
}

func (h *InputHandler) count() error {
	s, err := h.selected()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	start := time.Now()
	h.counter.Reset()
	n, err := h.counter.Count(ctx)
	if err != nil {
		return err
	}
	h.out.Printf("%s linkages for %d words in %v (%s spans, %s memo hits)",
		highlight(formatWithCommas(n)), s.Len(), time.Since(start),
		formatWithCommas(int64(h.counter.Calls())), formatWithCommas(int64(h.counter.MemoHits())))
	return nil
}

func (h *InputHandler) stats() error {
	if _, err := h.selected(); err != nil {
		return err
	}
	st := h.matcher.Stats()
	h.out.Printf("words %d  disjuncts %d  nodes %d  buckets %d/%d  longest chain %d",
		st.Words, st.Disjuncts, st.Nodes, st.LeftBuckets, st.RightBuckets, st.LongestChain)
	h.out.Printf("arena cap %d  high %d  grows %d  queries %d  match cache %d/%d  alt cache %d",
		st.ArenaCap, st.ArenaHighWater, st.ArenaGrows, st.Queries, st.MatchHits, st.MatchHits+st.MatchMisses, st.AltHits)
	return nil
}

// queryConnector turns a console argument into a free-standing connector;
// "-" means none.
func queryConnector(t *connector.Table, name string) (*connector.Connector, error) {
	if name == "-" {
		return nil, nil
	}
	desc, err := t.Intern(name)
	if err != nil {
		return nil, fmt.Errorf("connector %q: %w", name, err)
	}
	return connector.New(desc), nil
}

func sentenceText(s *disjunct.Sentence) string {
	words := make([]string, len(s.Words))
	for i, w := range s.Words {
		words[i] = w.Text
	}
	return strings.Join(words, " ")
}
