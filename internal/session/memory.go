package session

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore keeps sessions in process. Entries expire ttl after their last save;
// a non-positive ttl keeps them forever.
type MemoryStore struct {
	cache *expirable.LRU[string, Session]
}

// NewMemoryStore returns an empty store with no size limit.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: expirable.NewLRU[string, Session](0, nil, ttl),
	}
}

// Get returns the session with the given id.
func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	sess, ok := m.cache.Get(id)
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Save stores s and restarts its ttl.
func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.cache.Add(s.ID, s)
	return nil
}

// Delete removes the session; deleting an unknown id is not an error.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Remove(id)
	return nil
}

// Len is the number of live sessions.
func (m *MemoryStore) Len() int {
	return len(m.cache.Keys())
}
