package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a connection to a session and blocks until it closes.
func ServeWs(ctx context.Context, hub *Hub, c *websocket.Conn, sessionID string, handler ChatHandler) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Handler: handler, Send: make(chan []byte, 256)}
	if !hub.attach(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump(ctx)
}
