package store

import (
	"context"
	"sync"
	"time"

	"travelbot/internal/model"
)

type memoryKey struct {
	conversationID string
	kind           model.OfferKind
}

// MemoryOfferStore is a process-local OfferStore with expiry
type MemoryOfferStore struct {
	mu        sync.Mutex
	snapshots map[memoryKey]*Snapshot
	ttl       time.Duration
	now       func() time.Time
}

// NewMemoryOfferStore creates a store whose snapshots live for ttl; a
// non-positive ttl keeps them until cleared
func NewMemoryOfferStore(ttl time.Duration) *MemoryOfferStore {
	return &MemoryOfferStore{
		snapshots: make(map[memoryKey]*Snapshot),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (s *MemoryOfferStore) Save(_ context.Context, conversationID string, result model.FormattedResult) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()

	snap := newSnapshot(conversationID, result, s.now())
	s.snapshots[memoryKey{conversationID, result.Kind}] = snap
	return snap, nil
}

func (s *MemoryOfferStore) Load(_ context.Context, conversationID string, kind model.OfferKind) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{conversationID, kind}
	snap, ok := s.snapshots[key]
	if !ok {
		return nil, nil
	}
	if s.expired(snap) {
		delete(s.snapshots, key)
		return nil, nil
	}
	return snap, nil
}

func (s *MemoryOfferStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, kind := range offerKinds {
		delete(s.snapshots, memoryKey{conversationID, kind})
	}
	return nil
}

// Len reports how many live snapshots are held
func (s *MemoryOfferStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	return len(s.snapshots)
}

func (s *MemoryOfferStore) expired(snap *Snapshot) bool {
	return s.ttl > 0 && s.now().Sub(snap.SavedAt) >= s.ttl
}

// evictExpired must be called with mu held
func (s *MemoryOfferStore) evictExpired() {
	for key, snap := range s.snapshots {
		if s.expired(snap) {
			delete(s.snapshots, key)
		}
	}
}
