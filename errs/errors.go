// Package errs defines the error kinds a decision can surface.
//
// Reference: docs/ADR/ADR-0101-access-decision-engine.md §7 (Error Handling Design).
package errs

import "errors"

// Request errors — returned immediately, before any storage access.
var (
	// ErrRequestInvalid is returned for an empty subject id, an empty
	// resource id, or a requested mask with no positive bits. Per
	// docs/ADR/ADR-0101-access-decision-engine.md §7.4, callers see a zero mask, not this error, from
	// Authorize; it exists so tests and adapters can distinguish
	// "declined" from "nothing requested".
	ErrRequestInvalid = errors.New("authz: empty subject, empty resource, or empty requested mask")
)

// Storage errors — returned from the adapter as a failed decision, per docs/ADR/ADR-0101-access-decision-engine.md §7.1.
var (
	// ErrStorageFailure wraps any error returned by the storage
	// adapter's Get or ConsumeCounter calls. The adapter's error text is
	// included in the message; the adapter's error value itself is not
	// in the wrap chain, so errors.Is matches ErrStorageFailure only.
	// Decode errors are not reported this way (see ErrDecodeCorruption).
	// No partial decision is returned when this occurs.
	ErrStorageFailure = errors.New("authz: storage adapter failure")
)

// Decode errors — non-fatal, per docs/ADR/ADR-0101-access-decision-engine.md §7.2.
var (
	// ErrDecodeCorruption marks a row that the adapter could not
	// decode. The engine skips every record of that row, notes the
	// corruption on the trace info channel, and continues; it never
	// escalates this into a failed decision.
	ErrDecodeCorruption = errors.New("authz: malformed ACL record")
)

// ErrDepthExceeded is never returned to the caller — depth truncation
// is soft (docs/ADR/ADR-0101-access-decision-engine.md §7.3). When a walk hits the depth bound,
// trace.Report.Truncated is set and this error's message is written
// into the accompanying trace info note.
var ErrDepthExceeded = errors.New("authz: traversal depth exceeded")
