package service

import (
	"context"
	"time"

	"ai-shopping-agent-be/internal/mapper"
	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/pkg/ai/router"
	"ai-shopping-agent-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IPublisherService puts turn events on the in-process bus. It implements
// router.Observer.
type IPublisherService interface {
	router.Observer
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	mapper    *mapper.ChatMapper
	now       func() time.Time
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, m *mapper.ChatMapper, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		mapper:    m,
		now:       time.Now,
		logger:    log,
	}
}

func (s *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := events.Encode(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(event.EventID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", event.EventType())
	return s.publisher.Publish(s.topicName, msg)
}

func (s *publisherService) ObserveTurn(ctx context.Context, res *router.TurnResult, elapsed time.Duration) {
	tc := s.mapper.ToTurnEvent(res)
	tc.Latency = elapsed
	if err := s.Publish(context.WithoutCancel(ctx), events.NewTurnCompleted(tc, s.now())); err != nil {
		s.logger.Warn("EVENTS", "Failed to publish turn event", map[string]interface{}{
			"session_id": res.SessionID,
			"error":      err.Error(),
		})
	}
}
