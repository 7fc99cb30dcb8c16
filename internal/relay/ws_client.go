package relay

import (
	"encoding/json"
	"log"
	"time"

	"sparmatch/backend/internal/config"
	"sparmatch/backend/internal/models"

	"github.com/gorilla/websocket"
)

// WebSocketClient implements Client over a gorilla/websocket connection.
type WebSocketClient struct {
	ID       int64 // assigned by the registry on Register
	UserID   string
	Conn     *websocket.Conn
	Router   *Router
	Registry *Registry
	Send     chan models.Event
}

func (c *WebSocketClient) GetUserID() string                   { return c.UserID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops writePump. readPump stops on
// its own once the transport is closed.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump reads frames from the transport and feeds them synchronously to
// the router, preserving per-connection frame order. Transport close is the
// only path that unregisters the connection.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Registry.Unregister(c.ID)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from connection %d: %v", c.ID, err)
			}
			break
		}

		c.Router.Dispatch(c.ID, c, raw)
	}
}

// writePump drains the Send channel into the transport and keeps the
// connection alive with pings. A write error just ends the pump; the read
// side notices the dead transport and unregisters.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(config.PingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				// channel closed by the registry
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("error encoding %s event for connection %d: %v", ev.Type, c.ID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
