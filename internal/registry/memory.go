package registry

import (
	"context"
	"sync"
)

// MemoryStore keeps subscriptions for the lifetime of the process. Losing
// them on restart is an accepted property of the service, not a bug. A single
// mutex covers both the dedupe set and the ordered history so the
// check-then-insert in Add is atomic.
type MemoryStore struct {
	mu      sync.Mutex
	byEmail map[string]struct{}
	records []Record
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byEmail: make(map[string]struct{})}
}

var _ Store = (*MemoryStore)(nil)

// Add inserts the record, or returns ErrAlreadySubscribed if a record with
// the same normalized email exists.
func (m *MemoryStore) Add(_ context.Context, record Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[record.Email]; ok {
		return ErrAlreadySubscribed
	}
	m.byEmail[record.Email] = struct{}{}
	m.records = append(m.records, record)
	return nil
}

// Exists reports whether a record with the normalized email is present.
func (m *MemoryStore) Exists(_ context.Context, normalizedEmail string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.byEmail[normalizedEmail]
	return ok, nil
}

// List returns records in insertion order.
func (m *MemoryStore) List(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.records), nil
}
