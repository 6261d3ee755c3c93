// Package storeinmem is a reference storage.Adapter backed by an
// in-process map, pairing the adapter interface with an in-memory
// implementation the way every other domain package in this codebase's
// ancestry does. It exists to exercise the engine in tests and the
// CLI, and to
// demonstrate the optional decode-memoization behavior that
// docs/ADR/ADR-0101-access-decision-engine.md §4.2 grants adapters ("the
// adapter may memoize decodings across decisions; the engine does not
// cache across calls").
package storeinmem

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/canonkit/authzkernel/errs"
	"github.com/canonkit/authzkernel/mask"
	"github.com/canonkit/authzkernel/storage"
)

// Store is an in-memory storage.Adapter. The zero value is not usable;
// construct one with New.
type Store struct {
	mu       sync.RWMutex
	rows     map[string][]byte
	counters map[string]int

	decodeCache *ristretto.Cache[string, storage.Decoded]
	filterCache *ristretto.Cache[string, mask.Mask]

	logger *slog.Logger
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithLogger attaches a logger for operational diagnostics. Decisions
// made against the Store are never logged by the engine itself
// (docs/ADR/ADR-0101-access-decision-engine.md §1); this logger only reports storage-adapter activity.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// New builds an empty Store.
func New(opts ...StoreOption) (*Store, error) {
	decodeCache, err := ristretto.NewCache(&ristretto.Config[string, storage.Decoded]{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("storeinmem: new decode cache: %w", err)
	}
	filterCache, err := ristretto.NewCache(&ristretto.Config[string, mask.Mask]{
		NumCounters: 1e3,
		MaxCost:     1 << 16,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("storeinmem: new filter cache: %w", err)
	}

	s := &Store{
		rows:        map[string][]byte{},
		counters:    map[string]int{},
		decodeCache: decodeCache,
		filterCache: filterCache,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PutMembership writes a membership row for id (key M<id>).
func (s *Store) PutMembership(id string, terminal bool, recs ...storage.Record) error {
	return s.putRow(storage.MembershipKey(id), storage.Decoded{Records: recs, Terminal: terminal})
}

// PutPermissions writes a permission row for id (key P<id>).
func (s *Store) PutPermissions(id string, recs ...storage.Record) error {
	return s.putRow(storage.PermissionKey(id), storage.Decoded{Records: recs})
}

// PutFilter writes a filter row for id (key F<id>).
func (s *Store) PutFilter(id string, m mask.Mask) error {
	blob, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("storeinmem: encode filter %s: %w", id, err)
	}
	s.mu.Lock()
	s.rows[storage.FilterKey(id)] = blob
	s.mu.Unlock()
	return nil
}

// SetCounterUses declares the remaining use-count for a record id
// referenced by storage.Record.CounterID (docs/ADR/ADR-0101-access-decision-engine.md §4.7).
func (s *Store) SetCounterUses(counterID string, uses int) {
	s.mu.Lock()
	s.counters[counterID] = uses
	s.mu.Unlock()
}

func (s *Store) putRow(key string, decoded storage.Decoded) error {
	blob, err := json.Marshal(decoded)
	if err != nil {
		return fmt.Errorf("storeinmem: encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.rows[key] = blob
	s.mu.Unlock()
	return nil
}

// Get implements storage.Adapter.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	blob, ok := s.rows[key]
	s.mu.RUnlock()
	s.logger.Debug("storeinmem get", "key", key, "hit", ok)
	return blob, ok, nil
}

// DecodeMembership implements storage.Adapter, memoizing the decode by
// the content of blob so repeated decisions against unchanged rows
// skip the JSON unmarshal.
func (s *Store) DecodeMembership(blob []byte) (storage.Decoded, error) {
	return s.decode(blob)
}

// DecodePermissions implements storage.Adapter.
func (s *Store) DecodePermissions(blob []byte) (storage.Decoded, error) {
	return s.decode(blob)
}

func (s *Store) decode(blob []byte) (storage.Decoded, error) {
	cacheKey := string(blob)
	if cached, ok := s.decodeCache.Get(cacheKey); ok {
		s.logger.Debug("storeinmem decode cache hit")
		return cached, nil
	}
	var decoded storage.Decoded
	if err := json.Unmarshal(blob, &decoded); err != nil {
		return storage.Decoded{}, fmt.Errorf("storeinmem: %w: %v", errs.ErrDecodeCorruption, err)
	}
	s.decodeCache.Set(cacheKey, decoded, 1)
	return decoded, nil
}

// DecodeFilter implements storage.Adapter.
func (s *Store) DecodeFilter(blob []byte) (mask.Mask, error) {
	cacheKey := string(blob)
	if cached, ok := s.filterCache.Get(cacheKey); ok {
		return cached, nil
	}
	var m mask.Mask
	if err := json.Unmarshal(blob, &m); err != nil {
		return 0, fmt.Errorf("storeinmem: %w: %v", errs.ErrDecodeCorruption, err)
	}
	s.filterCache.Set(cacheKey, m, 1)
	return m, nil
}

// ConsumeCounter implements storage.CounterConsumer. A counter id that
// was never registered via SetCounterUses is treated as unlimited.
func (s *Store) ConsumeCounter(ctx context.Context, counterID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining, tracked := s.counters[counterID]
	if !tracked {
		return true, nil
	}
	if remaining <= 0 {
		return false, nil
	}
	s.counters[counterID] = remaining - 1
	return true, nil
}

var _ storage.Adapter = (*Store)(nil)
var _ storage.CounterConsumer = (*Store)(nil)
