// Package session keeps per-conversation state: message history and the
// products most recently shown to the user.
package session

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MaxLastMentioned bounds the list used to resolve "the first one" and friends.
const MaxLastMentioned = 3

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Intent    string    `json:"intent,omitempty"`
	EntityIDs []string  `json:"entity_ids,omitempty"`
}

type Session struct {
	ID            string    `json:"session_id"`
	History       []Message `json:"history"`
	LastMentioned []string  `json:"last_mentioned"`
	CreatedAt     time.Time `json:"created_at"`
	LastActivity  time.Time `json:"last_activity"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.History = make([]Message, len(s.History))
	for i, m := range s.History {
		m.EntityIDs = append([]string(nil), m.EntityIDs...)
		out.History[i] = m
	}
	out.LastMentioned = append([]string(nil), s.LastMentioned...)
	return &out
}

// UserMessages returns the user side of the history, oldest first.
func (s *Session) UserMessages() []string {
	var out []string
	for _, m := range s.History {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}

// Repository is the storage behind Store. Implementations need not lock per
// key; Store does that.
type Repository interface {
	Save(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
	List() []*Session
}
