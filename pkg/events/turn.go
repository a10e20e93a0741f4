package events

import "time"

const TypeTurnCompleted = "turn_completed"

// TurnCompleted summarises one dialogue turn. It never carries message text.
type TurnCompleted struct {
	SessionID    string
	Intent       string
	IsRefusal    bool
	SafetyReason string
	SafetyTier   int
	CandidateIDs []string
	Generated    bool
	Latency      time.Duration
}

func NewTurnCompleted(t TurnCompleted, at time.Time) BaseEvent {
	ids := make([]interface{}, len(t.CandidateIDs))
	for i, id := range t.CandidateIDs {
		ids[i] = id
	}
	return NewBaseEvent(TypeTurnCompleted, map[string]interface{}{
		"session_id":    t.SessionID,
		"intent":        t.Intent,
		"is_refusal":    t.IsRefusal,
		"safety_reason": t.SafetyReason,
		"safety_tier":   t.SafetyTier,
		"candidate_ids": ids,
		"generated":     t.Generated,
		"latency_ms":    t.Latency.Milliseconds(),
	}, at)
}
