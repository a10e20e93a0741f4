package mapper

import (
	"ai-shopping-agent-be/internal/dto"
	"ai-shopping-agent-be/internal/model"
	"ai-shopping-agent-be/pkg/ai/router"
	"ai-shopping-agent-be/pkg/events"
	"ai-shopping-agent-be/pkg/session"
)

type ChatMapper struct {
	products *ProductMapper
}

func NewChatMapper(products *ProductMapper) *ChatMapper {
	return &ChatMapper{products: products}
}

func (m *ChatMapper) ToChatResponse(res *router.TurnResult) *dto.ChatResponse {
	out := &dto.ChatResponse{
		Message:    res.ResponseText,
		Intent:     string(res.Intent),
		SessionID:  res.SessionID,
		Comparison: m.products.ToComparison(res.Comparison),
		Sources:    append([]string{}, res.ReferencedEntityIDs...),
		IsRefusal:  res.IsRefusal,
	}
	if len(res.Candidates) > 0 && res.Comparison == nil {
		out.Products = m.products.ToCards(res.Candidates)
	}
	return out
}

func (m *ChatMapper) ToHistory(s *session.Session) *dto.ChatHistoryResponse {
	msgs := make([]dto.ChatMessageResponse, len(s.History))
	for i, h := range s.History {
		msgs[i] = dto.ChatMessageResponse{
			Role:      string(h.Role),
			Content:   h.Content,
			Timestamp: h.Timestamp,
			Intent:    h.Intent,
		}
	}
	return &dto.ChatHistoryResponse{
		SessionID:           s.ID,
		Messages:            msgs,
		LastMentionedPhones: append([]string{}, s.LastMentioned...),
	}
}

func (m *ChatMapper) ToTurnEvent(res *router.TurnResult) events.TurnCompleted {
	return events.TurnCompleted{
		SessionID:    res.SessionID,
		Intent:       string(res.Intent),
		IsRefusal:    res.IsRefusal,
		SafetyReason: res.Safety.Reason,
		SafetyTier:   res.Safety.Tier,
		CandidateIDs: res.ReferencedEntityIDs,
		Generated:    res.Generated,
	}
}

// EventToTurnLog reads a decoded turn_completed envelope. Missing fields
// keep their zero values.
func (m *ChatMapper) EventToTurnLog(e events.Event) *model.TurnLog {
	data := e.Payload()
	str := func(k string) string { s, _ := data[k].(string); return s }
	boolean := func(k string) bool { b, _ := data[k].(bool); return b }

	var ids []string
	switch raw := data["candidate_ids"].(type) {
	case []interface{}:
		for _, v := range raw {
			if s, ok := v.(string); ok {
				ids = append(ids, s)
			}
		}
	case []string:
		ids = raw
	}

	var latency int64
	switch v := data["latency_ms"].(type) {
	case float64:
		latency = int64(v)
	case int64:
		latency = v
	}

	return &model.TurnLog{
		Id:           e.EventID(),
		SessionId:    str("session_id"),
		Intent:       str("intent"),
		IsRefusal:    boolean("is_refusal"),
		SafetyReason: str("safety_reason"),
		CandidateIds: ids,
		Generated:    boolean("generated"),
		LatencyMs:    latency,
		OccurredAt:   e.Timestamp(),
	}
}
