package memory

import (
	"context"
	"sync"
	"time"
)

const processingMarker = "processing"

type idempotencyRecord struct {
	value     []byte
	expiresAt time.Time
}

// IdempotencyStore implements usecase.IdempotencyStore for a single process.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]idempotencyRecord
	now     func() time.Time
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		records: make(map[string]idempotencyRecord),
		now:     time.Now,
	}
}

// CheckAndSet claims key unless a live claim exists, in which case the stored
// value is returned.
func (s *IdempotencyStore) CheckAndSet(_ context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if rec, ok := s.records[key]; ok && now.Before(rec.expiresAt) {
		return true, rec.value, nil
	}

	value := []byte(processingMarker)
	if response != nil {
		value = append([]byte(nil), response...)
	}
	s.records[key] = idempotencyRecord{value: value, expiresAt: now.Add(ttl)}
	return false, nil, nil
}

// Update replaces the claim with the final response.
func (s *IdempotencyStore) Update(_ context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = idempotencyRecord{
		value:     append([]byte(nil), response...),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Release drops the claim.
func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}
