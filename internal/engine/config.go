package engine

import (
	"github.com/canonkit/authzkernel/pkg/clock"
	"github.com/canonkit/authzkernel/trace"
)

// DefaultMaxDepth is the traversal cap applied independently to each
// side of a decision (docs/ADR/ADR-0101-access-decision-engine.md §4.4 "Depth bound").
const DefaultMaxDepth = 32

// DefaultAllResourcesGroupID names the implicit everything-group every
// resource belongs to (docs/ADR/ADR-0101-access-decision-engine.md §3 "Special identifiers"). The
// asterisk sentinel mirrors the "all namespaces" wildcard convention
// used by ACL systems in the research corpus (hashicorp/nomad's
// AllNamespacesSentinel).
const DefaultAllResourcesGroupID = "*"

// Config is the process-wide, immutable-after-init configuration
// described in docs/ADR/ADR-0101-access-decision-engine.md §6.
type Config struct {
	// MaxDepth bounds traversal depth on each side independently.
	MaxDepth int

	// AllResourcesGroupID is the implicit resource group every
	// resource belongs to.
	AllResourcesGroupID string
}

// DefaultConfig returns MaxDepth 32 and AllResourcesGroupID "*".
func DefaultConfig() Config {
	return Config{
		MaxDepth:            DefaultMaxDepth,
		AllResourcesGroupID: DefaultAllResourcesGroupID,
	}
}

// normalize fills in zero-valued fields with their defaults, so a
// caller-supplied Config{} behaves like DefaultConfig().
func (c Config) normalize() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.AllResourcesGroupID == "" {
		c.AllResourcesGroupID = DefaultAllResourcesGroupID
	}
	return c
}

// options collects everything an Option can set for one Authorize call.
type options struct {
	config     Config
	recorder   *trace.Recorder
	clock      clock.Clock
	decisionID string
}

// Option configures a single Authorize call.
type Option func(*options)

// WithConfig overrides the default Config for this call.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.config = cfg.normalize() }
}

// WithMaxDepth overrides only the depth bound.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.config.MaxDepth = depth
		}
	}
}

// WithAllResourcesGroupID overrides the implicit everything-group id.
func WithAllResourcesGroupID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.config.AllResourcesGroupID = id
		}
	}
}

// WithRecorder attaches a trace recorder to this call. Passing nil (the
// default) disables tracing entirely at no cost (docs/ADR/ADR-0101-access-decision-engine.md §4.3).
func WithRecorder(rec *trace.Recorder) Option {
	return func(o *options) { o.recorder = rec }
}

// WithClock injects the clock used to evaluate record expiry
// (docs/ADR/ADR-0101-access-decision-engine.md §4.7). Defaults to clock.NewReal().
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithDecisionID tags this call with a caller-supplied correlation id,
// echoed into the trace's info channel. See docs/ADR/ADR-0101-access-decision-engine.md §3 for why
// callers typically fill this from a UUID.
func WithDecisionID(id string) Option {
	return func(o *options) { o.decisionID = id }
}

func newOptions(opts []Option) options {
	o := options{
		config: DefaultConfig(),
		clock:  clock.NewReal(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.decisionID != "" {
		o.recorder.Infof("decision %s", o.decisionID)
	}
	return o
}
