// Package engine is the decision engine: the bounded, cycle-safe
// traversal that computes a subject's effective access mask to a
// resource (docs/ADR/ADR-0101-access-decision-engine.md §4.4). It implements
// the core decision described in docs/ADR/ADR-0101-access-decision-engine.md §2
// and depends on nothing but the storage.Adapter contract, the mask algebra,
// and the trace recorder.
package engine

import (
	"context"
	"fmt"

	"github.com/canonkit/authzkernel/errs"
	"github.com/canonkit/authzkernel/mask"
	"github.com/canonkit/authzkernel/storage"
)

// Authorize computes the subset of requested that subjectID may
// exercise against resourceID, per docs/ADR/ADR-0101-access-decision-engine.md §4.4. It never returns bits
// outside requested (docs/ADR/ADR-0101-access-decision-engine.md §8 invariant). On a storage failure it
// propagates the adapter's error and returns no partial result
// (docs/ADR/ADR-0101-access-decision-engine.md §7.1).
func Authorize(ctx context.Context, resourceID, subjectID string, requested mask.Mask, adapter storage.Adapter, opts ...Option) (mask.Mask, error) {
	o := newOptions(opts)
	requestedBits := mask.RequestedBits(requested)

	// Request-invalid: empty ids or nothing positive requested return
	// 0 immediately, with no error (docs/ADR/ADR-0101-access-decision-engine.md §7.4).
	if resourceID == "" || subjectID == "" || requestedBits == 0 {
		o.recorder.Infof("%v", errs.ErrRequestInvalid)
		return 0, nil
	}

	subjects, err := buildSubjectClosure(ctx, subjectID, adapter, o)
	if err != nil {
		return 0, err
	}

	d := &decision{
		opts:          o,
		adapter:       adapter,
		subjects:      subjects,
		requestedBits: requestedBits,
		filterMask:    mask.All,
	}
	if err := d.walkResourceSide(ctx, resourceID); err != nil {
		return 0, err
	}

	return d.result(), nil
}

// decision holds the accumulators and bookkeeping for a single call to
// Authorize; it exists only for the lifetime of that call (docs/ADR/ADR-0101-access-decision-engine.md §5
// "Resource lifetime").
type decision struct {
	opts          options
	adapter       storage.Adapter
	subjects      *subjectClosure
	requestedBits mask.Mask

	accumulatedGrant mask.Mask
	accumulatedDeny  mask.Mask

	filterMask        mask.Mask
	ignoreFilterGrant mask.Mask
}

// residualGrant is the subset of requestedBits whose verdict is not
// yet settled against a deny. Once it is empty, no further walking can
// change the outcome (docs/ADR/ADR-0101-access-decision-engine.md §4.4 "Termination", condition (i)).
func (d *decision) residualGrant() mask.Mask {
	return d.requestedBits &^ d.accumulatedDeny
}

func (d *decision) result() mask.Mask {
	granted := d.accumulatedGrant &^ d.accumulatedDeny
	filtered := granted & d.filterMask
	bypassed := d.ignoreFilterGrant &^ d.accumulatedDeny
	return (filtered | bypassed) & d.requestedBits
}

// contribute applies one (resourceGroup, subjectGroup, record) triple
// to the decision's accumulators, per the composition rules of
// docs/ADR/ADR-0101-access-decision-engine.md §4.4–§4.6. It is a no-op unless subjectGroup lies in the
// subject closure.
func (d *decision) contribute(resourceGroup string, rec storage.Record) {
	if !d.subjects.has(rec.SubjectID) {
		return
	}

	grantBits := mask.Positive(rec.Access)
	denyBits := mask.Deny(rec.Access)

	// Deny bits are never gated by the exclusive rule: they always
	// apply (docs/ADR/ADR-0101-access-decision-engine.md §4.5).
	if denyBits != 0 {
		d.accumulatedDeny |= denyBits
	}

	if grantBits == 0 {
		return
	}
	if !d.subjects.gateOK(rec.SubjectID) {
		return
	}
	d.accumulatedGrant |= grantBits
	if rec.Marker == mask.IgnoreFilter {
		d.ignoreFilterGrant |= grantBits
	}
}

// consumePermissionRow loads and applies P<id>, including expiry and
// usage-counter handling (docs/ADR/ADR-0101-access-decision-engine.md §4.7), then loads F<id> and
// intersects it into the filter mask. It applies every record of the
// row; the early exit once nothing more can change the result is made
// by walkResourceSide after this returns.
func (d *decision) consumePermissionRow(ctx context.Context, id string, depth int) error {
	blob, ok, err := adapterGet(ctx, d.adapter, storage.PermissionKey(id))
	if err != nil {
		return fmt.Errorf("%w: get %s: %v", errs.ErrStorageFailure, storage.PermissionKey(id), err)
	}
	if ok {
		decoded, derr := d.adapter.DecodePermissions(blob)
		if derr != nil {
			d.opts.recorder.Infof("decode-corruption: permission row for %s: %v", id, derr)
		} else {
			for _, rec := range decoded.Records {
				if rec.IsDeleted || isExpired(rec, d.opts) {
					continue
				}
				if !d.subjects.has(rec.SubjectID) {
					continue // SG not in the subject closure: no contribution (§4.4)
				}
				if rec.CounterID != "" {
					// A record only consumes a use once it actually
					// contributes (docs/ADR/ADR-0101-access-decision-engine.md §4.7): the subject-closure
					// check above must run first.
					ok, cerr := consumeCounter(ctx, d.adapter, rec.CounterID)
					if cerr != nil {
						return fmt.Errorf("%w: consume counter %s: %v", errs.ErrStorageFailure, rec.CounterID, cerr)
					}
					if !ok {
						continue // no remaining uses: treated as access == 0
					}
				}
				d.contribute(id, rec)
				d.opts.recorder.PermissionHit(id, rec.SubjectID, depth, rec, d.residualGrant())
			}
		}
	}

	// Filter rows may live on any resource group in the closure
	// (docs/ADR/ADR-0101-access-decision-engine.md §4.6).
	fblob, fok, ferr := adapterGet(ctx, d.adapter, storage.FilterKey(id))
	if ferr != nil {
		return fmt.Errorf("%w: get %s: %v", errs.ErrStorageFailure, storage.FilterKey(id), ferr)
	}
	if fok {
		fm, derr := d.adapter.DecodeFilter(fblob)
		if derr != nil {
			d.opts.recorder.Infof("decode-corruption: filter row for %s: %v", id, derr)
		} else {
			d.filterMask &= fm
		}
	}

	return nil
}

// adapterGet is a thin wrapper kept only so both the subject and
// resource walks share one call site for context cancellation; it
// adds no behavior of its own.
func adapterGet(ctx context.Context, adapter storage.Adapter, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return adapter.Get(ctx, key)
}

func consumeCounter(ctx context.Context, adapter storage.Adapter, counterID string) (bool, error) {
	cc, ok := adapter.(storage.CounterConsumer)
	if !ok {
		return true, nil // adapter doesn't support counters: treat as unlimited
	}
	return cc.ConsumeCounter(ctx, counterID)
}

func isExpired(rec storage.Record, o options) bool {
	return !rec.ValidThrough.IsZero() && o.clock.Now().After(rec.ValidThrough)
}
