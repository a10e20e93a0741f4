package service

import (
	"context"

	"ai-shopping-agent-be/internal/mapper"
	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/internal/repository/contract"
	"ai-shopping-agent-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder sends events out of the process, e.g. to NATS.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	turnLogs   contract.TurnLogRepository
	forwarder  EventForwarder
	mapper     *mapper.ChatMapper
	logger     logger.ILogger
}

// NewConsumerService drains the turn topic. turnLogs and forwarder are both
// optional.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	turnLogs contract.TurnLogRepository,
	forwarder EventForwarder,
	m *mapper.ChatMapper,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		turnLogs:   turnLogs,
		forwarder:  forwarder,
		mapper:     m,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()
	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("EVENTS", "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // undecodable messages never get better
		return
	}

	if cs.turnLogs != nil && event.Type == events.TypeTurnCompleted {
		if err := cs.turnLogs.Create(ctx, cs.mapper.EventToTurnLog(event)); err != nil {
			cs.logger.Warn("EVENTS", "Failed to store turn log", map[string]interface{}{
				"event_id": event.ID,
				"error":    err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			// Forwarding is best effort.
			cs.logger.Warn("EVENTS", "Failed to forward event", map[string]interface{}{
				"event_id": event.ID,
				"error":    err.Error(),
			})
		}
	}

	cs.logger.Debug("EVENTS", "Event processed", map[string]interface{}{
		"event_id": event.ID,
		"type":     event.Type,
	})
	msg.Ack()
}
