package fastmatch

import (
	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/charmbracelet/log"
)

// DumpVerbosity is the verbosity at which every match list is dumped.
const DumpVerbosity = 9

type options struct {
	initialListSize int
	growthFactor    int
	slabChunk       int
	verbosity       int
	lower           connector.LowerMatcher
	logger          *log.Logger
}

// Option configures a Matcher.
type Option func(*options)

func defaultOptions() options {
	return options{
		initialListSize: DefaultInitialListSize,
		growthFactor:    DefaultGrowthFactor,
		slabChunk:       defaultSlabChunk,
		lower:           connector.StrictLower,
	}
}

// WithInitialListSize sets the initial arena capacity.
func WithInitialListSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialListSize = n
		}
	}
}

// WithGrowthFactor sets the arena growth multiplier. Values below 2 are ignored.
func WithGrowthFactor(f int) Option {
	return func(o *options) {
		if f >= 2 {
			o.growthFactor = f
		}
	}
}

// WithSlabChunk sets how many table nodes are allocated at once.
func WithSlabChunk(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.slabChunk = n
		}
	}
}

// WithVerbosity sets the debug verbosity; at DumpVerbosity every list is dumped.
func WithVerbosity(v int) Option {
	return func(o *options) {
		o.verbosity = v
	}
}

// WithLowerMatcher replaces the lowercase subtype predicate.
func WithLowerMatcher(m connector.LowerMatcher) Option {
	return func(o *options) {
		if m != nil {
			o.lower = m
		}
	}
}

// WithLogger sets the logger used for match-list dumps.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
