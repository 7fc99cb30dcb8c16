package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetChatList returns one preview per conversation the user participates
// in: peer profile, last message and unread count.
func (h *Handler) GetChatList(c *gin.Context) {
	userID := c.Param("userId")

	chats, err := h.Storage.ChatList(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// MarkRead flips every unread message addressed to the user in the
// conversation to read. The relay's viewMessages frame deliberately does
// not do this; clients call this endpoint when a conversation is opened.
func (h *Handler) MarkRead(c *gin.Context) {
	conversationID := c.Param("conversationId")
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	if err := h.Storage.MarkMessagesRead(userID, conversationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages read"})
		return
	}

	unread, err := h.Storage.CountUnread(userID, conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": unread})
}

// GetNotifications lists the offline pushes recorded for the user, newest
// first.
func (h *Handler) GetNotifications(c *gin.Context) {
	userID := c.Param("userId")

	notifications, err := h.Storage.NotificationsForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
