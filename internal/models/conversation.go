package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is the durable pairing of two participants under which
// messages are grouped. At most one conversation exists per unordered pair;
// storage lookups check both orderings before creating.
type Conversation struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	User1ID   string    `gorm:"type:text;not null;index:idx_conv_pair" json:"user1Id"`
	User2ID   string    `gorm:"type:text;not null;index:idx_conv_pair" json:"user2Id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// Message belongs to exactly one conversation. The relay only ever creates
// messages and flips IsRead; deletion is a CRUD concern handled elsewhere.
type Message struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"type:text;not null;index:idx_conv_msg" json:"conversationId"`
	SenderID       string    `gorm:"type:text;not null" json:"senderId"`
	ReceiverID     string    `gorm:"type:text;not null;index:idx_conv_msg" json:"receiverId"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsRead         bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// ConversationHistory is the payload of a loadMessages event: the
// conversation plus its full ordered message list.
type ConversationHistory struct {
	Conversation
	Messages []Message `json:"messages"`
}

// ChatPreview is one row of a user's chat list: the peer, the last message
// and how many messages are still unread.
type ChatPreview struct {
	ConversationID  string     `json:"conversationId"`
	Peer            *User      `json:"user"`
	LastMessage     *string    `json:"lastMessage"`
	LastMessageDate *time.Time `json:"lastMessageDate"`
	UnreadCount     int64      `json:"unreadCount"`
}

// Notification is the durable record of an offline push. It is written
// before delivery is attempted so the history survives gateway failures.
type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReceiverID string    `gorm:"type:text;not null;index" json:"receiverId"`
	Title      string    `gorm:"type:text;not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}
