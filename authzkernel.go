// Package authzkernel is the public surface of the access decision
// engine described in docs/ADR/ADR-0101-access-decision-engine.md §6: given a subject, a resource, and a
// requested access mask, it returns the subset of that mask the
// subject may exercise, by walking the resource's and subject's group
// closures against whatever key/value store the caller supplies
// through a storage.Adapter. The package performs no I/O of its own.
package authzkernel

import (
	"context"

	"github.com/canonkit/authzkernel/internal/engine"
	"github.com/canonkit/authzkernel/mask"
	"github.com/canonkit/authzkernel/storage"
	"github.com/canonkit/authzkernel/trace"
)

// Mask is re-exported for callers that only need this package.
type Mask = mask.Mask

// Config is the process-wide traversal configuration (docs/ADR/ADR-0101-access-decision-engine.md §6).
type Config = engine.Config

// Option configures a single Authorize or Explain call.
type Option = engine.Option

// DefaultConfig returns MaxDepth 32, AllResourcesGroupID "*".
func DefaultConfig() Config { return engine.DefaultConfig() }

// The following re-export every functional option the engine accepts,
// so callers never need to import internal/engine directly.
var (
	WithConfig              = engine.WithConfig
	WithMaxDepth            = engine.WithMaxDepth
	WithAllResourcesGroupID = engine.WithAllResourcesGroupID
	WithRecorder            = engine.WithRecorder
	WithClock               = engine.WithClock
	WithDecisionID          = engine.WithDecisionID
)

// Authorize computes the subset of requested that subjectID may
// exercise against resourceID. It never returns bits outside
// requested. On a storage failure it propagates the adapter's error
// and returns no partial result (docs/ADR/ADR-0101-access-decision-engine.md §4.4, §7).
func Authorize(ctx context.Context, resourceID, subjectID string, requested Mask, adapter storage.Adapter, opts ...Option) (Mask, error) {
	return engine.Authorize(ctx, resourceID, subjectID, requested, adapter, opts...)
}

// Explain runs the same decision as Authorize with every trace
// channel enabled and returns the serialized explanation instead of
// just the mask (docs/ADR/ADR-0101-access-decision-engine.md §6 "trace(...)").
func Explain(ctx context.Context, resourceID, subjectID string, requested Mask, adapter storage.Adapter, opts ...Option) (*trace.Report, error) {
	rec := trace.New(trace.All)
	full := append(append([]Option{}, opts...), engine.WithRecorder(rec))
	granted, err := engine.Authorize(ctx, resourceID, subjectID, requested, adapter, full...)
	if err != nil {
		return nil, err
	}
	return rec.Report(granted), nil
}
