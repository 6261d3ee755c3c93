package mask

import "fmt"

// Marker is a closed sum type over the single-character ACL record
// tags described in docs/ADR/ADR-0101-access-decision-engine.md §4.5,
// whose "tagged variants over markers" design note is taken literally:
// composition switches on this enum, never on a raw byte, so adding a
// new marker is a compile-time-checked decision.
type Marker int

const (
	// Plain is an ordinary record: no special composition rule.
	Plain Marker = iota

	// Exclusive marks a membership or permission as exclusive: if any
	// reached membership on the subject chain is exclusive, only
	// exclusive (or IgnoreExclusive) links may contribute a grant.
	Exclusive

	// IgnoreExclusive bypasses the exclusive rule: the record
	// contributes unconditionally even when an exclusive path exists
	// elsewhere on the chain.
	IgnoreExclusive

	// IgnoreFilter marks a grant as bypassing the active filter mask
	// (docs/ADR/ADR-0101-access-decision-engine.md §4.6): it is re-ORed into the result after the filter
	// intersection is applied.
	IgnoreFilter

	// Terminal is the tag for a row that concludes a chain
	// (docs/ADR/ADR-0101-access-decision-engine.md §4.2, §4.5). The engine's walks stop at a
	// row whose storage.Decoded.Terminal is set; they do not read this
	// marker on individual records.
	Terminal
)

// String renders the marker the way it would appear in a trace.
func (m Marker) String() string {
	switch m {
	case Plain:
		return "plain"
	case Exclusive:
		return "exclusive"
	case IgnoreExclusive:
		return "ignore-exclusive"
	case IgnoreFilter:
		return "ignore-filter"
	case Terminal:
		return "terminal"
	default:
		return fmt.Sprintf("marker(%d)", int(m))
	}
}

// ParseMarker decodes the single-character tag an adapter may return
// for a raw ACL record, per the table in docs/ADR/ADR-0101-access-decision-engine.md §4.5. An empty string
// or an unrecognized character both decode to Plain; callers that need
// to detect an unrecognized tag should compare against the known
// single-character forms directly before calling ParseMarker.
func ParseMarker(tag string) Marker {
	switch tag {
	case "X":
		return Exclusive
	case "I":
		return IgnoreExclusive
	case "F":
		return IgnoreFilter
	case "T":
		return Terminal
	default:
		return Plain
	}
}
