// Package trace accumulates structured evidence of a single decision
// and serializes it into an explanation on demand (docs/ADR/ADR-0101-access-decision-engine.md §4.3). It
// is deliberately a plain data recorder: the engine decides what and
// when to record, and this package never talks to a logging framework
// or makes an ordering promise of its own (docs/ADR/ADR-0101-access-decision-engine.md "Trace as
// data, not callbacks").
package trace

import (
	"encoding/json"
	"fmt"

	"github.com/canonkit/authzkernel/errs"
	"github.com/canonkit/authzkernel/mask"
	"github.com/canonkit/authzkernel/storage"
)

// Channel identifies one of the three independently toggleable trace
// channels described in docs/ADR/ADR-0101-access-decision-engine.md §4.3.
type Channel int

const (
	// GroupWalk records every group expansion on either side.
	GroupWalk Channel = 1 << iota

	// PermissionMatch records every permission hit and deny
	// application.
	PermissionMatch

	// Info carries free-form diagnostic notes, including corrupted
	// record warnings (docs/ADR/ADR-0101-access-decision-engine.md §7.2) and depth-truncation notices.
	Info

	// All enables every channel; used by Explain/Trace (docs/ADR/ADR-0101-access-decision-engine.md §6).
	All = GroupWalk | PermissionMatch | Info
)

// Side identifies which closure an event belongs to.
type Side string

// The two closures a decision walks (docs/ADR/ADR-0101-access-decision-engine.md §4.4).
const (
	SideSubject  Side = "subject-walk"
	SideResource Side = "resource-walk"
)

// Event is one recorded step: a group expansion, a permission hit, a
// deny application, or a free-form note. Fields that don't apply to a
// given event are left at their zero value.
type Event struct {
	// ID is the group, subject, or resource id this event concerns.
	ID string `json:"id,omitempty"`

	// Depth is the traversal depth at which this event occurred.
	Depth int `json:"depth,omitempty"`

	// ResourceGroup and SubjectGroup identify the (RG, SG) pair for a
	// permission-hit event (docs/ADR/ADR-0101-access-decision-engine.md §4.4).
	ResourceGroup string `json:"resource_group,omitempty"`
	SubjectGroup  string `json:"subject_group,omitempty"`

	// Record is the ACL record that produced this event, if any.
	Record *storage.Record `json:"record,omitempty"`

	// Residual is the residual mask immediately after this event.
	Residual mask.Mask `json:"residual"`

	// Note is a free-form message, used on the Info channel.
	Note string `json:"note,omitempty"`
}

// Recorder accumulates events for a single decision. The zero value is
// usable but records nothing on any channel — use New to enable
// specific channels. A nil *Recorder is valid and records nothing;
// every method is a no-op on it, so callers that don't want a trace
// can pass nil all the way through the engine at no cost.
type Recorder struct {
	enabled Channel

	subjectWalk    []Event
	resourceWalk   []Event
	permissionHits []Event
	info           []Event
	truncated      bool
}

// New returns a Recorder with the given channels enabled. Passing 0
// returns a Recorder that records no events; unlike a nil *Recorder,
// it still keeps the Truncated flag set by MarkTruncated.
func New(channels Channel) *Recorder {
	return &Recorder{enabled: channels}
}

// has reports whether c is enabled. A nil receiver has no channels
// enabled.
func (r *Recorder) has(c Channel) bool {
	return r != nil && r.enabled&c != 0
}

// GroupWalk records a group expansion on the given side, if the
// GroupWalk channel is enabled.
func (r *Recorder) GroupWalk(side Side, id string, depth int, residual mask.Mask) {
	if !r.has(GroupWalk) {
		return
	}
	ev := Event{ID: id, Depth: depth, Residual: residual}
	switch side {
	case SideSubject:
		r.subjectWalk = append(r.subjectWalk, ev)
	case SideResource:
		r.resourceWalk = append(r.resourceWalk, ev)
	}
}

// PermissionHit records a contributing (or deny-applying) ACL record
// found for the (resourceGroup, subjectGroup) pair, if the
// PermissionMatch channel is enabled.
func (r *Recorder) PermissionHit(resourceGroup, subjectGroup string, depth int, rec storage.Record, residual mask.Mask) {
	if !r.has(PermissionMatch) {
		return
	}
	r.permissionHits = append(r.permissionHits, Event{
		ResourceGroup: resourceGroup,
		SubjectGroup:  subjectGroup,
		Depth:         depth,
		Record:        &rec,
		Residual:      residual,
	})
}

// Infof records a free-form note on the Info channel, if enabled.
func (r *Recorder) Infof(format string, args ...any) {
	if !r.has(Info) {
		return
	}
	r.info = append(r.info, Event{Note: fmt.Sprintf(format, args...)})
}

// MarkTruncated flags the decision as having hit the depth bound
// (docs/ADR/ADR-0101-access-decision-engine.md §4.4 "Depth bound"). Safe to call on a nil Recorder.
func (r *Recorder) MarkTruncated() {
	if r == nil {
		return
	}
	r.truncated = true
	r.Infof("%v: returning partial result", errs.ErrDepthExceeded)
}

// Report is the serialized explanation of a decision (docs/ADR/ADR-0101-access-decision-engine.md §4.3):
// an object with arrays of events keyed by side, plus the final mask
// and the truncation flag.
type Report struct {
	SubjectWalk    []Event   `json:"subject-walk"`
	ResourceWalk   []Event   `json:"resource-walk"`
	PermissionHits []Event   `json:"permission-hits"`
	Info           []Event   `json:"info,omitempty"`
	FinalMask      mask.Mask `json:"final-mask"`
	Truncated      bool      `json:"truncated"`
}

// Report builds the structured explanation for the decision so far.
// Calling Report does not reset the recorder. A nil Recorder produces
// an empty report with the given final mask.
func (r *Recorder) Report(final mask.Mask) *Report {
	if r == nil {
		return &Report{FinalMask: final}
	}
	return &Report{
		SubjectWalk:    r.subjectWalk,
		ResourceWalk:   r.resourceWalk,
		PermissionHits: r.permissionHits,
		Info:           r.info,
		FinalMask:      final,
		Truncated:      r.truncated,
	}
}

// JSON serializes the report. Events carry insertion order only — the
// recorder makes no ordering guarantee beyond that (docs/ADR/ADR-0101-access-decision-engine.md §4.3).
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
