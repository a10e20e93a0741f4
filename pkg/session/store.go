package session

import (
	"sync"
	"time"

	"ai-shopping-agent-be/internal/pkg/logger"

	"github.com/google/uuid"
)

const DefaultMaxHistory = 50

// Turn is what one exchange adds to a session.
type Turn struct {
	UserMessage string
	Response    string
	Intent      string
	// EntityIDs are the products the turn referenced, highest priority first.
	EntityIDs []string
}

// Store serialises work per session id. Different ids never contend.
type Store struct {
	repo       Repository
	locks      sync.Map // id -> *sync.Mutex
	maxHistory int
	now        func() time.Time
	logger     logger.ILogger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithMaxHistory(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

func NewStore(repo Repository, log logger.ILogger, opts ...Option) *Store {
	s := &Store{repo: repo, maxHistory: DefaultMaxHistory, now: time.Now, logger: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lock takes the per-session lock and returns its release function. Callers
// hold it across a whole read-modify-write turn.
func (s *Store) Lock(id string) (unlock func()) {
	for {
		v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
		m := v.(*sync.Mutex)
		m.Lock()
		// The evictor may have retired this mutex while we waited.
		if cur, ok := s.locks.Load(id); ok && cur == m {
			return m.Unlock
		}
		m.Unlock()
	}
}

// GetOrCreate returns a copy of the session, creating it (with a fresh id when
// id is empty) if needed. It refreshes LastActivity.
func (s *Store) GetOrCreate(id string) *Session {
	now := s.now()
	if id != "" {
		if sess, ok := s.repo.Get(id); ok {
			sess = sess.Clone()
			sess.LastActivity = now
			s.repo.Save(sess.Clone())
			return sess
		}
	} else {
		id = uuid.NewString()
	}

	sess := &Session{ID: id, CreatedAt: now, LastActivity: now}
	s.repo.Save(sess.Clone())
	s.logger.Debug("SESSION", "Session created", map[string]interface{}{"session_id": id})
	return sess
}

// Get returns a copy of an existing session and refreshes its LastActivity.
// It takes the session lock, so callers must not already hold it.
func (s *Store) Get(id string) (*Session, bool) {
	if _, ok := s.repo.Get(id); !ok {
		return nil, false
	}

	unlock := s.Lock(id)
	defer unlock()

	sess, ok := s.repo.Get(id)
	if !ok {
		s.locks.Delete(id)
		return nil, false
	}
	sess = sess.Clone()
	sess.LastActivity = s.now()
	s.repo.Save(sess.Clone())
	return sess, true
}

// History returns the message history, or nil for an unknown id.
func (s *Store) History(id string) []Message {
	sess, ok := s.Get(id)
	if !ok {
		return nil
	}
	return sess.History
}

func (s *Store) Delete(id string) bool {
	unlock := s.Lock(id)
	defer unlock()

	// Waiters on the retired mutex retry against a fresh one.
	defer s.locks.Delete(id)

	if _, ok := s.repo.Get(id); !ok {
		return false
	}
	s.repo.Delete(id)
	return true
}

// RecordTurn appends the exchange to sess and writes it back. When the turn
// referenced products, LastMentioned is replaced by the first three of them.
// The caller must hold the session lock.
func (s *Store) RecordTurn(sess *Session, turn Turn) *Session {
	now := s.now()
	ids := append([]string(nil), turn.EntityIDs...)

	sess.History = append(sess.History,
		Message{Role: RoleUser, Content: turn.UserMessage, Timestamp: now},
		Message{Role: RoleAssistant, Content: turn.Response, Timestamp: now, Intent: turn.Intent, EntityIDs: ids},
	)
	if over := len(sess.History) - s.maxHistory; over > 0 {
		sess.History = append([]Message(nil), sess.History[over:]...)
	}

	if len(ids) > 0 {
		if len(ids) > MaxLastMentioned {
			ids = ids[:MaxLastMentioned]
		}
		sess.LastMentioned = ids
	}
	sess.LastActivity = now

	s.repo.Save(sess.Clone())
	return sess
}

// EvictIdle drops sessions idle for longer than ttl and reports how many went.
// Sessions whose lock is held are skipped; they are in use.
func (s *Store) EvictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	evicted := 0

	for _, sess := range s.repo.List() {
		if !sess.LastActivity.Before(cutoff) {
			continue
		}

		v, _ := s.locks.LoadOrStore(sess.ID, &sync.Mutex{})
		m := v.(*sync.Mutex)
		if !m.TryLock() {
			continue
		}
		if cur, ok := s.repo.Get(sess.ID); ok && cur.LastActivity.Before(cutoff) {
			s.repo.Delete(sess.ID)
			s.locks.Delete(sess.ID)
			evicted++
		}
		m.Unlock()
	}

	if evicted > 0 {
		s.logger.Info("SESSION", "Evicted idle sessions", map[string]interface{}{"count": evicted})
	}
	return evicted
}

func (s *Store) Len() int {
	return len(s.repo.List())
}
