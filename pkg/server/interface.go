/*
Package server implements msgpack IPC for linkage counting and match-list queries.

The server reads a stream of msgpack-encoded requests from stdin and writes one
msgpack-encoded response per request to stdout. Requests are handled in order,
one at a time, and every response carries the request id and the time taken in
microseconds.

# IPC

Every request is a map with an id and an action. Sentences are sent in the same
shape as corpus fixtures:

	{"id": "c1", "action": "count", "sentence": {"words": [{"word": "LEFT-WALL", "disjuncts": [{"conns": "Wd+"}]}, ...]}}

The server responds with the number of complete linkages:

	{"id": "c1", "n": 2, "w": 4, "t": 145}

A match request asks for the match list of one word against a left and/or right
connector, named the way disjunct notation names them:

	{"id": "m1", "action": "match", "sentence": {...}, "w": 2, "lc": "Ss", "lw": 1, "rc": "O", "rw": 3}
	{"id": "m1", "m": [{"d": "Ss- O+", "l": true, "r": true}], "c": 1, "t": 12}

Matchers built for a sentence are kept in an LRU keyed by a hash of the
sentence's msgpack encoding, so follow-up queries on the same sentence skip the
table build.

	{"id": "s1", "action": "stats"}
	{"id": "u1", "action": "config", "cache_size": 128}

Failed requests get an error response with a short code:

	{"id": "m1", "e": "word 7 outside sentence of 4 words", "c": 400}
*/
package server

import "github.com/bastiangx/linkmatch/pkg/corpus"

// Request is the envelope of every message. Fields unused by an action are
// left empty.
type Request struct {
	ID       string               `msgpack:"id"`
	Action   string               `msgpack:"action"`
	Sentence *corpus.SentenceSpec `msgpack:"sentence,omitempty"`

	// match
	Word  int    `msgpack:"w,omitempty"`
	LC    string `msgpack:"lc,omitempty"`
	LW    int    `msgpack:"lw,omitempty"`
	RC    string `msgpack:"rc,omitempty"`
	RW    int    `msgpack:"rw,omitempty"`
	Limit int    `msgpack:"limit,omitempty"`

	// config
	CacheSize  *int    `msgpack:"cache_size,omitempty"`
	LowerMatch *string `msgpack:"lower_match,omitempty"`
}

// CountResponse - linkage count response
type CountResponse struct {
	ID        string `msgpack:"id"`
	Linkages  int64  `msgpack:"n"`
	Words     int    `msgpack:"w"`
	Cached    bool   `msgpack:"cached,omitempty"`
	TimeTaken int64  `msgpack:"t"`
}

// MatchEntry - one disjunct of a match list
type MatchEntry struct {
	Disjunct string  `msgpack:"d"`
	Left     bool    `msgpack:"l"`
	Right    bool    `msgpack:"r"`
	Cost     float64 `msgpack:"cost,omitempty"`
}

// MatchResponse - match list response
type MatchResponse struct {
	ID        string       `msgpack:"id"`
	Matches   []MatchEntry `msgpack:"m"`
	Count     int          `msgpack:"c"`
	TimeTaken int64        `msgpack:"t"`
}

// StatsResponse - server counters and the last used matcher's figures
type StatsResponse struct {
	ID          string `msgpack:"id"`
	Requests    uint64 `msgpack:"requests"`
	Cached      int    `msgpack:"cached"`
	CacheSize   int    `msgpack:"cache_size"`
	CacheHits   uint64 `msgpack:"cache_hits"`
	CacheMisses uint64 `msgpack:"cache_misses"`
	LowerMatch  string `msgpack:"lower_match"`
	Queries     uint64 `msgpack:"queries"`
	ArenaCap    int    `msgpack:"arena_cap"`
	ArenaHigh   int    `msgpack:"arena_high"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
