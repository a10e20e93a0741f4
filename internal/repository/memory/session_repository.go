package memory

import (
	"ai-shopping-agent-be/pkg/session"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in go-cache. Expiration is a backstop;
// idle eviction is driven by session.Store.EvictIdle.
type SessionRepository struct {
	cache *cache.Cache
}

var _ session.Repository = &SessionRepository{}

func NewSessionRepository(expiration, cleanupInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(expiration, cleanupInterval),
	}
}

func (r *SessionRepository) Save(s *session.Session) {
	r.cache.Set(s.ID, s, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(id string) (*session.Session, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*session.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(id string) {
	r.cache.Delete(id)
}

func (r *SessionRepository) List() []*session.Session {
	items := r.cache.Items()
	out := make([]*session.Session, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(*session.Session))
	}
	return out
}
