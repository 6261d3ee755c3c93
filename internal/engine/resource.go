package engine

import (
	"context"
	"fmt"

	"github.com/canonkit/authzkernel/errs"
	"github.com/canonkit/authzkernel/storage"
	"github.com/canonkit/authzkernel/trace"
)

// walkResourceSide performs the bounded, cycle-safe upward walk from
// resourceID through M<id> rows, consuming each resource group's
// P<id> and F<id> rows as it goes (docs/ADR/ADR-0101-access-decision-engine.md §4.4). It also seeds the
// implicit everything-group at depth 0 (docs/ADR/ADR-0101-access-decision-engine.md §3 "Special
// identifiers"), since every resource belongs to it regardless of
// whether a membership row says so.
func (d *decision) walkResourceSide(ctx context.Context, resourceID string) error {
	type frame struct {
		id    string
		depth int
		// terminal is set for ids listed in a terminal membership row:
		// their own rows are consumed but they are not expanded further.
		terminal bool
	}

	visited := map[string]bool{resourceID: true}
	queue := []frame{{id: resourceID, depth: 0}}

	allGroup := d.opts.config.AllResourcesGroupID
	if allGroup != "" && allGroup != resourceID {
		visited[allGroup] = true
		queue = append(queue, frame{id: allGroup, depth: 0})
	}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		d.opts.recorder.GroupWalk(trace.SideResource, f.id, f.depth, d.residualGrant())

		if err := d.consumePermissionRow(ctx, f.id, f.depth); err != nil {
			return err
		}

		// No further grant can ever be restored once every requested
		// bit has been denied (docs/ADR/ADR-0101-access-decision-engine.md §4.4 "Termination", condition
		// (i)): the filter mask and ignore-filter grant can no longer
		// change the outcome either, since result() always intersects
		// with requestedBits and subtracts accumulatedDeny.
		if d.residualGrant() == 0 {
			return nil
		}

		if f.terminal {
			continue
		}

		if f.depth >= d.opts.config.MaxDepth {
			d.opts.recorder.MarkTruncated()
			continue
		}

		blob, ok, err := adapterGet(ctx, d.adapter, storage.MembershipKey(f.id))
		if err != nil {
			return fmt.Errorf("%w: get %s: %v", errs.ErrStorageFailure, storage.MembershipKey(f.id), err)
		}
		if !ok {
			continue
		}

		decoded, err := d.adapter.DecodeMembership(blob)
		if err != nil {
			d.opts.recorder.Infof("decode-corruption: membership row for %s: %v", f.id, err)
			continue
		}

		for _, rec := range decoded.Records {
			if rec.IsDeleted || isExpired(rec, d.opts) {
				continue
			}
			parent := rec.SubjectID
			if parent == "" || parent == f.id {
				continue // self-edge, skipped silently
			}
			if visited[parent] {
				continue // already visited: cycle guard + memoization
			}
			visited[parent] = true
			queue = append(queue, frame{id: parent, depth: f.depth + 1, terminal: decoded.Terminal})
		}
	}

	return nil
}
