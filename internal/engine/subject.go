package engine

import (
	"context"
	"fmt"

	"github.com/canonkit/authzkernel/errs"
	"github.com/canonkit/authzkernel/mask"
	"github.com/canonkit/authzkernel/storage"
	"github.com/canonkit/authzkernel/trace"
)

// subjectClosure is the transitive set of subject groups reachable
// from a subject id, computed once per decision (docs/ADR/ADR-0101-access-decision-engine.md §4.4
// "Each subject-side expansion is memoized within the decision").
// Because the subject id never changes within a single Authorize
// call, computing the full closure once up front is equivalent to —
// and simpler than — re-deriving it lazily for every resource-group
// permission row, while still only ever walking each subject group
// once.
type subjectClosure struct {
	// members is the visited set: every id reachable from the
	// starting subject, including the subject itself.
	members map[string]bool

	// chainOK records, for each member, whether every membership edge
	// on the path by which it was first discovered was Exclusive or
	// IgnoreExclusive (docs/ADR/ADR-0101-access-decision-engine.md §4.5). The starting subject's chain is
	// vacuously OK.
	chainOK map[string]bool

	// anyExclusive is true if any edge anywhere in the closure
	// carried the Exclusive marker. When false, the exclusive rule
	// never gates anything (docs/ADR/ADR-0101-access-decision-engine.md §4.5).
	anyExclusive bool
}

func (c *subjectClosure) has(id string) bool { return c.members[id] }

// gateOK reports whether a grant reached through subject-group id may
// contribute, per the exclusive composition rule in docs/ADR/ADR-0101-access-decision-engine.md §4.5.
func (c *subjectClosure) gateOK(id string) bool {
	return !c.anyExclusive || c.chainOK[id]
}

// buildSubjectClosure performs the bounded, cycle-safe upward walk
// from subjectID through M<id> rows (docs/ADR/ADR-0101-access-decision-engine.md §4.4, §4.5).
func buildSubjectClosure(ctx context.Context, subjectID string, adapter storage.Adapter, o options) (*subjectClosure, error) {
	sc := &subjectClosure{
		members: map[string]bool{subjectID: true},
		chainOK: map[string]bool{subjectID: true},
	}

	type frame struct {
		id    string
		depth int
	}
	queue := []frame{{id: subjectID, depth: 0}}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		o.recorder.GroupWalk(trace.SideSubject, f.id, f.depth, 0)

		if f.depth >= o.config.MaxDepth {
			o.recorder.MarkTruncated()
			continue
		}

		blob, ok, err := adapterGet(ctx, adapter, storage.MembershipKey(f.id))
		if err != nil {
			return nil, fmt.Errorf("%w: get %s: %v", errs.ErrStorageFailure, storage.MembershipKey(f.id), err)
		}
		if !ok {
			continue
		}

		decoded, err := adapter.DecodeMembership(blob)
		if err != nil {
			o.recorder.Infof("decode-corruption: membership row for %s: %v", f.id, err)
			continue
		}

		for _, rec := range decoded.Records {
			if rec.IsDeleted || isExpired(rec, o) {
				continue
			}
			parent := rec.SubjectID
			if parent == "" || parent == f.id {
				continue // self-edge, skipped silently (docs/ADR/ADR-0101-access-decision-engine.md §4.4 "Cycle handling")
			}
			if sc.members[parent] {
				continue // already visited: cycle guard + memoization
			}

			chainOK := sc.chainOK[f.id] && isExclusiveLink(rec.Marker)
			sc.members[parent] = true
			sc.chainOK[parent] = chainOK
			if rec.Marker == mask.Exclusive {
				sc.anyExclusive = true
			}

			if !decoded.Terminal {
				queue = append(queue, frame{id: parent, depth: f.depth + 1})
			}
		}
	}

	return sc, nil
}

func isExclusiveLink(m mask.Marker) bool {
	return m == mask.Exclusive || m == mask.IgnoreExclusive
}
