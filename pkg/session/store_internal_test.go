package session

import (
	"sync"
	"testing"

	"ai-shopping-agent-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type mapRepo struct {
	mu   sync.Mutex
	data map[string]*Session
}

func (r *mapRepo) Save(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.ID] = s
}

func (r *mapRepo) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[id]
	return s, ok
}

func (r *mapRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
}

func (r *mapRepo) List() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, 0, len(r.data))
	for _, s := range r.data {
		out = append(out, s)
	}
	return out
}

func lockCount(s *Store) int {
	n := 0
	s.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func TestDeleteReleasesLock(t *testing.T) {
	store := NewStore(&mapRepo{data: map[string]*Session{}}, logger.NewNopLogger())

	store.GetOrCreate("a")
	_, ok := store.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, lockCount(store))

	assert.True(t, store.Delete("a"))
	assert.False(t, store.Delete("missing"))
	_, ok = store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, lockCount(store))

	// A retired lock is replaced on next use.
	unlock := store.Lock("a")
	unlock()
	assert.Equal(t, 1, lockCount(store))
}
