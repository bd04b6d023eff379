// Package repository keeps the latest published bracket per seeding mode.
package repository

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/seedline/internal/domain/model"
)

// Snapshot is one published bracket.
type Snapshot struct {
	CycleID    string        `json:"cycleId"`
	Mode       model.Mode    `json:"mode"`
	Bracket    model.Bracket `json:"bracket"`
	ComputedAt time.Time     `json:"computedAt"`

	// Stale is set when a later cycle failed and this snapshot was kept.
	Stale     bool   `json:"stale"`
	LastError string `json:"lastError,omitempty"`
}

// Cycle is the complete output of one successful refresh.
type Cycle struct {
	ID         string
	ComputedAt time.Time
	Brackets   map[model.Mode]model.Bracket
}

// Store provides read/write access to published snapshots.
type Store interface {
	// Publish replaces every mode's snapshot with the cycle's brackets at
	// once. Readers never observe a mix of two cycles.
	Publish(ctx context.Context, c Cycle) error
	// MarkFailed flags the current snapshots as stale after a failed cycle.
	MarkFailed(ctx context.Context, cause error)
	// Get returns the snapshot for mode or ErrNotFound.
	Get(ctx context.Context, mode model.Mode) (Snapshot, error)
	// Latest returns the newest cycle id, or "" before the first publish.
	Latest(ctx context.Context) string
}

type state struct {
	cycleID    string
	computedAt time.Time
	byMode     map[model.Mode]Snapshot
}

// MemoryStore is an in-memory Store. Reads are lock-free.
type MemoryStore struct {
	mu      sync.Mutex // serialises writers
	current atomic.Pointer[state]
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.current.Store(&state{byMode: map[model.Mode]Snapshot{}})
	return s
}

// Publish implements Store.Publish. A cycle computed before the stored one
// is rejected with ErrStaleCycle.
func (s *MemoryStore) Publish(_ context.Context, c Cycle) error {
	if len(c.Brackets) == 0 {
		return ErrEmptyCycle
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if cur.cycleID != "" && c.ComputedAt.Before(cur.computedAt) {
		return ErrStaleCycle
	}

	next := &state{
		cycleID:    c.ID,
		computedAt: c.ComputedAt,
		byMode:     make(map[model.Mode]Snapshot, len(c.Brackets)),
	}
	for mode, b := range c.Brackets {
		next.byMode[mode] = Snapshot{
			CycleID:    c.ID,
			Mode:       mode,
			Bracket:    b,
			ComputedAt: c.ComputedAt,
		}
	}
	s.current.Store(next)
	return nil
}

// MarkFailed implements Store.MarkFailed.
func (s *MemoryStore) MarkFailed(_ context.Context, cause error) {
	msg := "refresh failed"
	if cause != nil {
		msg = cause.Error()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	next := &state{cycleID: cur.cycleID, computedAt: cur.computedAt, byMode: maps.Clone(cur.byMode)}
	for mode, snap := range next.byMode {
		snap.Stale = true
		snap.LastError = msg
		next.byMode[mode] = snap
	}
	s.current.Store(next)
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, mode model.Mode) (Snapshot, error) {
	snap, ok := s.current.Load().byMode[mode]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

// Latest implements Store.Latest.
func (s *MemoryStore) Latest(_ context.Context) string {
	return s.current.Load().cycleID
}
