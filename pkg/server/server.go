package server

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"time"

	"github.com/bastiangx/linkmatch/internal/logger"
	"github.com/bastiangx/linkmatch/pkg/config"
	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/corpus"
	"github.com/bastiangx/linkmatch/pkg/disjunct"
	"github.com/bastiangx/linkmatch/pkg/fastmatch"
	"github.com/bastiangx/linkmatch/pkg/search"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// requestError carries the code sent back to the client.
type requestError struct {
	code int
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{code: 400, msg: fmt.Sprintf(format, args...)}
}

// entry is a sentence with its built tables.
type entry struct {
	sent    *disjunct.Sentence
	matcher *fastmatch.Matcher
	counter *search.Counter
	count   *int64
}

// Server handles msgpack IPC for counting and match queries
type Server struct {
	cfg     *config.Config
	cfgPath string
	opts    []fastmatch.Option
	cache   *lru.Cache[uint64, *entry]

	dec *msgpack.Decoder
	enc *msgpack.Encoder
	log *log.Logger

	requests uint64
	hits     uint64
	misses   uint64
	last     *entry
}

// NewServer creates a server reading requests from r and writing responses to w.
// cfgPath is where config updates are saved; it may be empty.
func NewServer(cfg *config.Config, cfgPath string, r io.Reader, w io.Writer) (*Server, error) {
	opts, err := cfg.MatcherOptions()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:     cfg,
		cfgPath: cfgPath,
		opts:    opts,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
		log:     logger.New("server"),
	}
	s.cache, err = lru.NewWithEvict(cfg.Server.CacheSize, s.evict)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// evict frees the matcher of an entry leaving the cache.
func (s *Server) evict(_ uint64, e *entry) {
	if s.last == e {
		s.last = nil
	}
	e.matcher.Free()
}

// Start signals readiness and serves requests until the input ends or ctx
// is done.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server", "cache", s.cfg.Server.CacheSize, "lower", s.cfg.Matcher.LowerMatch)
	if err := s.send(map[string]string{"status": "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed", "requests", s.requests)
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			// the stream cannot be resynchronised after a bad message
			_ = s.send(ErrorResponse{Error: "invalid msgpack request", Code: 400})
			return err
		}
		if err := s.send(s.Handle(ctx, req)); err != nil {
			return err
		}
	}
}

// Close frees every cached matcher.
func (s *Server) Close() {
	s.cache.Purge()
	s.last = nil
}

// Handle processes one request and returns its response.
func (s *Server) Handle(ctx context.Context, req Request) any {
	s.requests++
	start := time.Now()

	var resp any
	var err error
	switch req.Action {
	case "count":
		resp, err = s.handleCount(ctx, req, start)
	case "match":
		resp, err = s.handleMatch(req, start)
	case "stats":
		resp = s.handleStats(req)
	case "config":
		resp = s.handleConfig(req)
	case "health":
		resp = map[string]string{"id": req.ID, "status": "ok"}
	default:
		err = badRequest("unknown action: %q", req.Action)
	}
	if err != nil {
		code := 500
		var re *requestError
		if errors.As(err, &re) {
			code = re.code
		} else if errors.Is(err, search.ErrCanceled) {
			code = 408
		}
		s.log.Debug("Request failed", "id", req.ID, "action", req.Action, "err", err)
		return ErrorResponse{ID: req.ID, Error: err.Error(), Code: code}
	}
	return resp
}

func (s *Server) handleCount(ctx context.Context, req Request, start time.Time) (any, error) {
	e, cached, err := s.lookup(req.Sentence)
	if err != nil {
		return nil, err
	}
	if e.count == nil {
		if d := s.cfg.Timeout(); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		n, err := e.counter.Count(ctx)
		if err != nil {
			return nil, err
		}
		e.count = &n
		cached = false
	}
	return CountResponse{
		ID:        req.ID,
		Linkages:  *e.count,
		Words:     e.sent.Len(),
		Cached:    cached,
		TimeTaken: time.Since(start).Microseconds(),
	}, nil
}

func (s *Server) handleMatch(req Request, start time.Time) (any, error) {
	e, _, err := s.lookup(req.Sentence)
	if err != nil {
		return nil, err
	}
	n := e.sent.Len()
	if req.Word < 0 || req.Word >= n {
		return nil, badRequest("word %d outside sentence of %d words", req.Word, n)
	}

	lc, err := s.queryConnector(e, req.LC, req.Limit)
	if err != nil {
		return nil, err
	}
	rc, err := s.queryConnector(e, req.RC, req.Limit)
	if err != nil {
		return nil, err
	}
	if lc != nil && (req.LW < 0 || req.LW >= req.Word) {
		return nil, badRequest("lw %d must lie left of word %d", req.LW, req.Word)
	}
	if rc != nil && (req.RW <= req.Word || req.RW >= n) {
		return nil, badRequest("rw %d must lie right of word %d", req.RW, req.Word)
	}

	m := e.matcher
	release := m.Scope()
	defer release()
	var out []MatchEntry
	m.Each(m.FormMatchList(req.Word, lc, req.LW, rc, req.RW), func(mt fastmatch.Match) bool {
		out = append(out, MatchEntry{
			Disjunct: mt.Disjunct.String(),
			Left:     mt.Left,
			Right:    mt.Right,
			Cost:     mt.Disjunct.Cost,
		})
		return true
	})
	return MatchResponse{
		ID:        req.ID,
		Matches:   out,
		Count:     len(out),
		TimeTaken: time.Since(start).Microseconds(),
	}, nil
}

func (s *Server) queryConnector(e *entry, name string, limit int) (*connector.Connector, error) {
	if name == "" {
		return nil, nil
	}
	desc, err := e.sent.Table.Intern(name)
	if err != nil {
		return nil, badRequest("connector %q: %v", name, err)
	}
	c := connector.New(desc)
	if limit > 0 {
		c.LengthLimit = limit
	}
	return c, nil
}

func (s *Server) handleStats(req Request) StatsResponse {
	resp := StatsResponse{
		ID:          req.ID,
		Requests:    s.requests,
		Cached:      s.cache.Len(),
		CacheSize:   s.cfg.Server.CacheSize,
		CacheHits:   s.hits,
		CacheMisses: s.misses,
		LowerMatch:  s.cfg.Matcher.LowerMatch,
	}
	if s.last != nil {
		st := s.last.matcher.Stats()
		resp.Queries = st.Queries
		resp.ArenaCap = st.ArenaCap
		resp.ArenaHigh = st.ArenaHighWater
	}
	return resp
}

func (s *Server) handleConfig(req Request) ConfigResponse {
	lowerChanged := req.LowerMatch != nil && *req.LowerMatch != s.cfg.Matcher.LowerMatch
	if err := s.cfg.Update(s.cfgPath, req.CacheSize, nil, req.LowerMatch); err != nil {
		s.log.Warnf("Config update rejected: %v", err)
		return ConfigResponse{ID: req.ID, Status: "error", Error: err.Error()}
	}
	if req.CacheSize != nil {
		s.cache.Resize(*req.CacheSize)
	}
	if lowerChanged {
		opts, err := s.cfg.MatcherOptions()
		if err != nil {
			return ConfigResponse{ID: req.ID, Status: "error", Error: err.Error()}
		}
		s.opts = opts
		// tables built with the old predicate are stale
		s.Close()
	}
	s.log.Debug("Config updated", "cache", s.cfg.Server.CacheSize, "lower", s.cfg.Matcher.LowerMatch)
	return ConfigResponse{ID: req.ID, Status: "ok"}
}

// lookup returns the cached entry for spec, building it on a miss.
func (s *Server) lookup(spec *corpus.SentenceSpec) (*entry, bool, error) {
	if spec == nil {
		return nil, false, badRequest("missing 'sentence'")
	}
	if len(spec.Words) > s.cfg.Search.MaxWords {
		return nil, false, badRequest("sentence has %d words, limit is %d", len(spec.Words), s.cfg.Search.MaxWords)
	}
	key, err := sentenceKey(spec)
	if err != nil {
		return nil, false, err
	}
	if e, ok := s.cache.Get(key); ok {
		s.hits++
		s.last = e
		return e, true, nil
	}
	s.misses++

	sent, err := spec.Build(connector.NewTable())
	if err != nil {
		return nil, false, badRequest("%v", err)
	}
	m := fastmatch.New(sent, s.opts...)
	e := &entry{
		sent:    sent,
		matcher: m,
		counter: search.NewCounter(m),
	}
	s.cache.Add(key, e)
	s.last = e
	return e, false, nil
}

// sentenceKey hashes the canonical msgpack encoding of spec.
func sentenceKey(spec *corpus.SentenceSpec) (uint64, error) {
	data, err := msgpack.Marshal(spec)
	if err != nil {
		return 0, err
	}
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64(), nil
}

func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return err
	}
	return nil
}
