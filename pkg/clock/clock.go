// Package clock provides a deterministic clock abstraction.
//
// GUARDRAIL: packages that evaluate record expiry MUST NOT call
// time.Now() directly. Instead, inject a Clock interface to enable
// deterministic testing and reproducible decisions (see the
// idempotence property in docs/ADR/ADR-0101-access-decision-engine.md).
//
// Usage:
//
//	type Adapter struct {
//	    clock clock.Clock
//	}
//
//	func NewAdapter(c clock.Clock) *Adapter {
//	    return &Adapter{clock: c}
//	}
//
//	func (a *Adapter) isExpired(validThrough time.Time) bool {
//	    return !validThrough.IsZero() && a.clock.Now().After(validThrough)
//	}
package clock

import "time"

// Clock provides the current time.
// All core logic should depend on this interface, not time.Now().
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual system time.
// Used at application entry points (cmd/*) and as the engine's default
// when no clock is injected.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns a fixed time.
// Use for deterministic testing.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed time.
func (c FixedClock) Now() time.Time {
	return c.T
}

// FuncClock wraps a function as a Clock.
// Useful for incremental time or custom test scenarios.
type FuncClock func() time.Time

// Now calls the wrapped function.
func (f FuncClock) Now() time.Time {
	return f()
}

// NewReal returns a Clock that uses the real system time.
// Used at application entry points (cmd/*) and as the engine's default
// when no clock is injected.
func NewReal() Clock {
	return RealClock{}
}

// NewFixed returns a Clock that always returns the given time.
// Use for deterministic testing.
func NewFixed(t time.Time) Clock {
	return FixedClock{T: t}
}

// NewFunc returns a Clock backed by a custom function.
// Useful for tests that need incrementing or dynamic time.
func NewFunc(f func() time.Time) Clock {
	return FuncClock(f)
}

// Verify interface compliance at compile time.
var (
	_ Clock = RealClock{}
	_ Clock = FixedClock{}
	_ Clock = FuncClock(nil)
)
