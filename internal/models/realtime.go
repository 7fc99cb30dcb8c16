package models

// Frame is the inbound wire envelope: a single JSON object discriminated by
// Type, with the kind-specific fields flattened alongside it. Fields a given
// frame kind does not use are simply left zero.
type Frame struct {
	Type string `json:"type"`

	// location
	UserID    string  `json:"userId,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`

	// near
	MaxDistance float64 `json:"maxDistance,omitempty"`

	// joinRoom
	User1ID string `json:"user1Id,omitempty"`
	User2ID string `json:"user2Id,omitempty"`

	// sendMessage / viewMessages
	ChatroomID string `json:"chatroomId,omitempty"`
	SenderID   string `json:"senderId,omitempty"`
	ReceiverID string `json:"receiverId,omitempty"`
	Content    string `json:"content,omitempty"`
}

// Recognized inbound frame kinds.
const (
	FrameLocation     = "location"
	FrameNear         = "near"
	FrameJoinRoom     = "joinRoom"
	FrameSendMessage  = "sendMessage"
	FrameViewMessages = "viewMessages"
)

// Outbound event kinds.
const (
	EventLocationUpdated = "userLocationUpdated"
	EventNear            = "near"
	EventLoadMessages    = "loadMessages"
	EventMessageSent     = "messageSent"
	EventReceiveMessage  = "receiveMessage"
	EventUnreadCount     = "unreadCount"
)

// Event is the outbound wire envelope, mirroring Frame: a Type discriminator
// plus whichever payload fields the event kind carries.
type Event struct {
	Type         string               `json:"type"`
	User         *User                `json:"user,omitempty"`
	Users        []NearbyUser         `json:"users,omitempty"`
	Conversation *ConversationHistory `json:"conversation,omitempty"`
	Message      *Message             `json:"message,omitempty"`
	UnreadCount  *int64               `json:"unreadCount,omitempty"`
}
