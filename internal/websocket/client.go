package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-shopping-agent-be/internal/dto"
	"ai-shopping-agent-be/pkg/ai/router"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	EventChatResponse = "chat_response"
	EventError        = "error"
)

// ChatHandler runs one dialogue turn.
type ChatHandler interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type inbound struct {
	Message string `json:"message"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	SessionID string
	Handler   ChatHandler

	// Buffered channel of outbound messages.
	Send chan []byte
}

// readPump turns each inbound frame into a chat turn and pushes the answer
// to every client of the session.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.Hub.detach(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("HUB", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}
		c.handle(ctx, raw)
	}
}

func (c *Client) handle(ctx context.Context, raw []byte) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil || in.Message == "" {
		c.Hub.Send(ctx, c.SessionID, errorEvent("message must be a JSON object with a non-empty \"message\""))
		return
	}

	res, err := c.Handler.Chat(ctx, &dto.ChatRequest{Message: in.Message, SessionID: c.SessionID})
	if err != nil {
		msg := "failed to process message"
		if errors.Is(err, router.ErrEmptyMessage) {
			msg = err.Error()
		}
		c.Hub.logger.Error("HUB", "Chat turn failed", map[string]interface{}{
			"session_id": c.SessionID,
			"error":      err.Error(),
		})
		c.Hub.Send(ctx, c.SessionID, errorEvent(msg))
		return
	}
	c.Hub.Send(ctx, c.SessionID, dto.WsChatEvent{Type: EventChatResponse, Data: res})
}

func errorEvent(msg string) dto.WsChatEvent {
	return dto.WsChatEvent{Type: EventError, Data: map[string]string{"message": msg}}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
