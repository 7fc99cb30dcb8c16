package handler

import (
	"net/http"
	"strings"

	"sparmatch/backend/internal/config"
	"sparmatch/backend/internal/models"
	"sparmatch/backend/internal/relay"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// bearerToken pulls the connection token from the Authorization header or,
// for browser WebSocket clients that cannot set headers, the token query
// parameter.
func bearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Query("token")
}

// ServeWebSocket upgrades the HTTP connection and hands it to the relay.
// The connection starts registered but unidentified; identity from the
// token is recorded on the client so the router can flag mismatching
// client-asserted ids.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	userID, err := validateToken(tokenString, h.JWTSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &relay.WebSocketClient{
		UserID:   userID,
		Conn:     conn,
		Router:   h.Router,
		Registry: h.Registry,
		Send:     make(chan models.Event, config.SendBufferSize),
	}
	client.ID = h.Registry.Register(client)

	client.Run()
}
