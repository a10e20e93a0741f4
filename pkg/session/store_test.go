package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/internal/repository/memory"
	"ai-shopping-agent-be/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T, opts ...session.Option) (*session.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	repo := memory.NewSessionRepository(24*time.Hour, 0)
	opts = append([]session.Option{session.WithClock(clock.Now)}, opts...)
	return session.NewStore(repo, logger.NewNopLogger(), opts...), clock
}

func TestGetOrCreate(t *testing.T) {
	store, clock := newStore(t)

	fresh := store.GetOrCreate("")
	require.NotEmpty(t, fresh.ID)
	assert.Equal(t, fresh.CreatedAt, fresh.LastActivity)

	named := store.GetOrCreate("abc")
	assert.Equal(t, "abc", named.ID)

	clock.Advance(time.Minute)
	again := store.GetOrCreate("abc")
	assert.Equal(t, named.CreatedAt, again.CreatedAt)
	assert.Equal(t, clock.Now(), again.LastActivity)
}

func TestRecordTurnUpdatesLastMentioned(t *testing.T) {
	store, _ := newStore(t)
	sess := store.GetOrCreate("s1")

	sess = store.RecordTurn(sess, session.Turn{
		UserMessage: "Show me Samsung phones",
		Response:    "Here you go",
		Intent:      "search",
		EntityIDs:   []string{"a", "b", "c", "d"},
	})
	assert.Equal(t, []string{"a", "b", "c"}, sess.LastMentioned)

	// A turn without entities leaves the list alone.
	store.RecordTurn(sess, session.Turn{UserMessage: "hi", Response: "hello", Intent: "greeting"})

	stored, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, stored.LastMentioned)
	require.Len(t, stored.History, 4)
	assert.Equal(t, session.RoleUser, stored.History[0].Role)
	assert.Equal(t, "search", stored.History[1].Intent)
	assert.Equal(t, []string{"Show me Samsung phones", "hi"}, stored.UserMessages())
}

func TestHistoryIsCapped(t *testing.T) {
	store, _ := newStore(t, session.WithMaxHistory(4))
	sess := store.GetOrCreate("s")
	for i := 0; i < 5; i++ {
		sess = store.RecordTurn(sess, session.Turn{UserMessage: fmt.Sprint(i), Response: "ok"})
	}

	history := store.History("s")
	require.Len(t, history, 4)
	assert.Equal(t, "3", history[0].Content)
}

func TestReturnedSessionsAreCopies(t *testing.T) {
	store, _ := newStore(t)
	sess := store.GetOrCreate("s")
	store.RecordTurn(sess, session.Turn{UserMessage: "x", Response: "y", EntityIDs: []string{"p"}})

	got, _ := store.Get("s")
	got.LastMentioned[0] = "mutated"

	again, _ := store.Get("s")
	assert.Equal(t, []string{"p"}, again.LastMentioned)
}

func TestEvictIdle(t *testing.T) {
	store, clock := newStore(t)
	store.GetOrCreate("old")
	clock.Advance(50 * time.Minute)
	store.GetOrCreate("recent")
	clock.Advance(20 * time.Minute)

	assert.Equal(t, 1, store.EvictIdle(time.Hour))
	_, ok := store.Get("old")
	assert.False(t, ok)
	_, ok = store.Get("recent")
	assert.True(t, ok)
}

func TestReadsRefreshLastActivity(t *testing.T) {
	store, clock := newStore(t)
	store.GetOrCreate("reader")

	clock.Advance(50 * time.Minute)
	sess, ok := store.Get("reader")
	require.True(t, ok)
	assert.Equal(t, clock.Now(), sess.LastActivity)

	clock.Advance(50 * time.Minute)
	store.History("reader")
	clock.Advance(20 * time.Minute)

	assert.Equal(t, 0, store.EvictIdle(time.Hour))
}

func TestEvictIdleSkipsLockedSessions(t *testing.T) {
	store, clock := newStore(t)
	store.GetOrCreate("busy")
	clock.Advance(2 * time.Hour)

	unlock := store.Lock("busy")
	assert.Equal(t, 0, store.EvictIdle(time.Hour))
	unlock()

	assert.Equal(t, 1, store.EvictIdle(time.Hour))
}

func TestDelete(t *testing.T) {
	store, _ := newStore(t)
	store.GetOrCreate("gone")

	assert.True(t, store.Delete("gone"))
	assert.False(t, store.Delete("gone"))
	assert.Nil(t, store.History("gone"))
}

func TestConcurrentTurnsOnSameSessionAreSerialised(t *testing.T) {
	store, _ := newStore(t, session.WithMaxHistory(1000))
	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := store.Lock("shared")
			defer unlock()
			sess := store.GetOrCreate("shared")
			store.RecordTurn(sess, session.Turn{UserMessage: fmt.Sprint(i), Response: "ok"})
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.History("shared"), 2*workers)
}

func TestDifferentSessionsDoNotBlock(t *testing.T) {
	store, _ := newStore(t)
	unlockA := store.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := store.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b waited for a")
	}
}
