package events_test

import (
	"testing"
	"time"

	"ai-shopping-agent-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnCompletedEnvelope(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := events.NewTurnCompleted(events.TurnCompleted{
		SessionID:    "s-1",
		Intent:       "search",
		CandidateIDs: []string{"pixel-8a", "oneplus-12r"},
		Generated:    true,
		Latency:      1500 * time.Millisecond,
	}, at)

	require.NotEmpty(t, e.EventID())
	data, err := events.Encode(e)
	require.NoError(t, err)

	got, err := events.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, e.EventID(), got.ID)
	assert.Equal(t, events.TypeTurnCompleted, got.EventType())
	assert.True(t, at.Equal(got.Timestamp()))
	assert.Equal(t, "s-1", got.Data["session_id"])
	assert.Equal(t, float64(1500), got.Data["latency_ms"])
	assert.Equal(t, []interface{}{"pixel-8a", "oneplus-12r"}, got.Data["candidate_ids"])
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := events.Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = events.Decode([]byte(`{"id": "x"}`))
	assert.Error(t, err)
}
