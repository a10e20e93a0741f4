package service

import (
	"context"
	"errors"

	"ai-shopping-agent-be/internal/dto"
	"ai-shopping-agent-be/internal/mapper"
	"ai-shopping-agent-be/pkg/ai/router"
	"ai-shopping-agent-be/pkg/session"
)

var ErrSessionNotFound = errors.New("session not found")

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, sessionID string) (*dto.ChatHistoryResponse, error)
	DeleteHistory(ctx context.Context, sessionID string) error
}

type chatService struct {
	router   *router.Router
	sessions *session.Store
	mapper   *mapper.ChatMapper
}

func NewChatService(r *router.Router, sessions *session.Store, m *mapper.ChatMapper) IChatService {
	return &chatService{router: r, sessions: sessions, mapper: m}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	res, err := s.router.HandleTurn(ctx, req.SessionID, req.Message)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToChatResponse(res), nil
}

func (s *chatService) History(_ context.Context, sessionID string) (*dto.ChatHistoryResponse, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.mapper.ToHistory(sess), nil
}

func (s *chatService) DeleteHistory(_ context.Context, sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return ErrSessionNotFound
	}
	return nil
}
