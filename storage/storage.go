// Package storage defines the narrow capability the engine consumes
// from whatever key/value store the embedding application uses.
// Nothing in this package performs I/O itself; it only describes the
// contract an adapter must satisfy (docs/ADR/ADR-0101-access-decision-engine.md §4.2, §6).
package storage

import (
	"context"
	"time"

	"github.com/canonkit/authzkernel/mask"
)

// Key builders for the three storage key spaces (docs/ADR/ADR-0101-access-decision-engine.md §6).

// MembershipKey returns the membership row key for id.
func MembershipKey(id string) string { return "M" + id }

// PermissionKey returns the permission row key for id.
func PermissionKey(id string) string { return "P" + id }

// FilterKey returns the filter row key for id.
func FilterKey(id string) string { return "F" + id }

// Record is one ACL entry decoded from a permission or membership row
// (docs/ADR/ADR-0101-access-decision-engine.md §3 "ACL record").
type Record struct {
	// SubjectID names a subject, subject-group, or resource-group,
	// depending on which row this record came from.
	SubjectID string

	// Access is the packed grant/deny mask this entry contributes.
	Access mask.Mask

	// Marker modifies how Access composes (docs/ADR/ADR-0101-access-decision-engine.md §4.5).
	Marker mask.Marker

	// IsDeleted tombstones the record: it exists but contributes no
	// access at all.
	IsDeleted bool

	// Level is the traversal depth the adapter observed this record
	// at, if it tracks that. The engine neither reads nor sets it, so
	// adapters need not fill it in.
	Level int

	// ValidThrough is the record's expiry. A zero Time means "never
	// expires". Expired records are skipped (docs/ADR/ADR-0101-access-decision-engine.md §4.7).
	ValidThrough time.Time

	// CounterID, if non-empty, identifies a usage-limited record to
	// the adapter's CounterConsumer. An empty CounterID means the
	// record has unlimited uses.
	CounterID string
}

// Decoded is what DecodeMembership/DecodePermissions return for one
// row: the records it contains, and whether the row is terminal
// (docs/ADR/ADR-0101-access-decision-engine.md §4.2 "is_terminal").
type Decoded struct {
	Records []Record

	// Terminal instructs the engine not to walk further upward from
	// any subject-group/resource-group id named in Records.
	Terminal bool
}

// Adapter is the capability the engine requires from the embedding
// application's key/value store. It performs no logic of its own; the
// engine depends only on this contract (docs/ADR/ADR-0101-access-decision-engine.md §4.2).
//
// Implementations MUST be safe for concurrent use if the caller runs
// more than one decision at a time (docs/ADR/ADR-0101-access-decision-engine.md §5).
type Adapter interface {
	// Get fetches a row by key. Absence (ok == false) is normal and
	// must not be treated as an error.
	Get(ctx context.Context, key string) (blob []byte, ok bool, err error)

	// DecodeMembership decodes a blob fetched from a MembershipKey.
	DecodeMembership(blob []byte) (Decoded, error)

	// DecodePermissions decodes a blob fetched from a PermissionKey.
	DecodePermissions(blob []byte) (Decoded, error)

	// DecodeFilter decodes a blob fetched from a FilterKey into the
	// single mask it permits (docs/ADR/ADR-0101-access-decision-engine.md §3 "Filter row").
	DecodeFilter(blob []byte) (mask.Mask, error)
}

// CounterConsumer is an optional capability an Adapter may also
// implement. When a record with a non-empty CounterID contributes to a
// decision, the engine calls ConsumeCounter exactly once for that
// record id. A false return means the record has no remaining uses and
// the engine must treat its Access as if it were zero (docs/ADR/ADR-0101-access-decision-engine.md §4.7).
type CounterConsumer interface {
	ConsumeCounter(ctx context.Context, counterID string) (hasRemaining bool, err error)
}
