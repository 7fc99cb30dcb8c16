package relay

import (
	"encoding/json"
	"fmt"
	"log"

	"sparmatch/backend/internal/models"
	"sparmatch/backend/internal/notify"
	"sparmatch/backend/internal/storage"
)

// Defaults for the viewMessages page fetch.
const (
	defaultPage     = 1
	defaultPageSize = 10
)

// Router is the protocol dispatcher. Each inbound frame is routed purely on
// its declared type; no ordering between frame kinds is imposed beyond the
// identity/room bindings a connection has accumulated. Malformed or unknown
// frames are logged and dropped, never fatal.
type Router struct {
	Registry *Registry
	Storage  storage.Storage
	Gateway  notify.Gateway // nil disables the offline fallback
}

func NewRouter(reg *Registry, s storage.Storage, gw notify.Gateway) *Router {
	return &Router{Registry: reg, Storage: s, Gateway: gw}
}

// Dispatch decodes one inbound frame from the connection and runs its
// handler. Called synchronously from the connection's read pump, so a single
// connection's frames are processed in arrival order while different
// connections interleave freely.
func (r *Router) Dispatch(connID int64, c Client, raw []byte) {
	var frame models.Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Printf("dropping undecodable frame from connection %d: %v", connID, err)
		return
	}

	switch frame.Type {
	case models.FrameLocation:
		r.handleLocation(connID, c, frame)
	case models.FrameNear:
		r.handleNear(c, frame)
	case models.FrameJoinRoom:
		r.handleJoinRoom(connID, c, frame)
	case models.FrameSendMessage:
		r.handleSendMessage(c, frame)
	case models.FrameViewMessages:
		r.handleViewMessages(c, frame)
	default:
		log.Printf("unknown message type %q from connection %d", frame.Type, connID)
	}
}

// send pushes an event to a client without ever blocking: a slow client's
// full buffer drops the event instead of stalling the calling handler. A
// snapshot may still hold a client whose channel the registry has already
// closed; that send fails silently too.
func send(c Client, ev models.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dropped %s event to closed connection", ev.Type)
		}
	}()

	select {
	case c.GetSendChannel() <- ev:
	default:
		log.Printf("dropping %s event: client send buffer full", ev.Type)
	}
}

func (r *Router) handleLocation(connID int64, c Client, frame models.Frame) {
	if frame.UserID == "" {
		log.Printf("location frame missing userId, dropping")
		return
	}

	user, err := r.Storage.UpdateLocation(frame.UserID, frame.Longitude, frame.Latitude)
	if err != nil {
		log.Printf("failed to update location for user %s: %v", frame.UserID, err)
		return
	}

	ev := models.Event{Type: models.EventLocationUpdated, User: user}
	for _, other := range r.Registry.Others(connID) {
		send(other, ev)
	}
}

func (r *Router) handleNear(c Client, frame models.Frame) {
	users, err := r.Storage.NearbyUsers(frame.Longitude, frame.Latitude, frame.MaxDistance)
	if err != nil {
		log.Printf("nearby-user query failed: %v", err)
		return
	}
	send(c, models.Event{Type: models.EventNear, Users: users})
}

// handleJoinRoom binds the connection to user1Id, looks up or creates the
// conversation for the pair, scopes the connection to it, and unicasts the
// full history plus the caller's unread count.
func (r *Router) handleJoinRoom(connID int64, c Client, frame models.Frame) {
	if frame.User1ID == "" || frame.User2ID == "" {
		log.Printf("joinRoom frame missing participant ids, dropping")
		return
	}
	if auth := c.GetUserID(); auth != "" && auth != frame.User1ID {
		log.Printf("joinRoom user1Id %q does not match authenticated user %q on connection %d", frame.User1ID, auth, connID)
	}

	r.Registry.Identify(connID, frame.User1ID)

	conversation, err := r.Storage.FindOrCreateConversation(frame.User1ID, frame.User2ID)
	if err != nil {
		log.Printf("failed to find or create conversation for (%s, %s): %v", frame.User1ID, frame.User2ID, err)
		return
	}
	r.Registry.JoinRoom(connID, conversation.ID)

	unread, err := r.Storage.CountUnread(frame.User1ID, conversation.ID)
	if err != nil {
		log.Printf("unread count failed for user %s in conversation %s: %v", frame.User1ID, conversation.ID, err)
		return
	}

	history, err := r.Storage.ConversationHistory(frame.User1ID, frame.User2ID)
	if err != nil {
		log.Printf("failed to load history for conversation %s: %v", conversation.ID, err)
		return
	}
	if history == nil {
		history = &models.ConversationHistory{Conversation: *conversation, Messages: []models.Message{}}
	}

	send(c, models.Event{Type: models.EventLoadMessages, Conversation: history, UnreadCount: &unread})
}

// handleSendMessage persists the message, then runs the delivery sequence:
// ack the sender, broadcast to the room, push the receiver's unread count,
// and fall back to an offline push when no receiver connection is live. The
// steps after persistence are independent of each other's success.
func (r *Router) handleSendMessage(c Client, frame models.Frame) {
	if frame.ChatroomID == "" || frame.SenderID == "" || frame.ReceiverID == "" {
		log.Printf("sendMessage frame missing required fields, dropping")
		return
	}

	msg := &models.Message{
		ConversationID: frame.ChatroomID,
		SenderID:       frame.SenderID,
		ReceiverID:     frame.ReceiverID,
		Content:        frame.Content,
	}
	if err := r.Storage.SaveMessage(msg); err != nil {
		log.Printf("failed to save message in conversation %s: %v", frame.ChatroomID, err)
		return
	}

	// 1. acknowledge the sender
	send(c, models.Event{Type: models.EventMessageSent, Message: msg})

	// 2. relay to every connection viewing this conversation
	ev := models.Event{Type: models.EventReceiveMessage, Message: msg}
	for _, member := range r.Registry.InRoom(frame.ChatroomID) {
		send(member, ev)
	}

	// 3. push the updated unread count to all of the receiver's connections
	if unread, err := r.Storage.CountUnread(frame.ReceiverID, frame.ChatroomID); err != nil {
		log.Printf("unread count failed for user %s in conversation %s: %v", frame.ReceiverID, frame.ChatroomID, err)
	} else {
		countEv := models.Event{Type: models.EventUnreadCount, UnreadCount: &unread}
		for _, recv := range r.Registry.ForUser(frame.ReceiverID) {
			send(recv, countEv)
		}
	}

	// 4. offline fallback, fire-and-forget
	if !r.Registry.IsOnline(frame.ReceiverID) {
		go r.notifyOffline(frame.SenderID, frame.ReceiverID)
	}
}

// notifyOffline sends a best-effort push telling the receiver to check the
// app. Gateway failures are logged and swallowed; the message itself has
// already been persisted and acknowledged.
func (r *Router) notifyOffline(senderID, receiverID string) {
	if r.Gateway == nil {
		return
	}

	from := "Someone"
	if sender, err := r.Storage.GetUser(senderID); err != nil {
		log.Printf("failed to load sender %s for push: %v", senderID, err)
	} else if sender != nil && sender.Email != "" {
		from = sender.Email
	}

	title := "New Message Received!"
	body := fmt.Sprintf("%s has sent you a new message.", from)
	if err := r.Gateway.NotifyUser(receiverID, title, body); err != nil {
		log.Printf("failed to send notification to %s: %v", receiverID, err)
	}
}

// handleViewMessages fetches a page of the conversation for the user and
// unicasts the recomputed unread count. Marking the page as read is a
// candidate future effect and deliberately not wired here; the REST surface
// exposes it explicitly.
func (r *Router) handleViewMessages(c Client, frame models.Frame) {
	if frame.ChatroomID == "" || frame.UserID == "" {
		log.Printf("viewMessages frame missing required fields, dropping")
		return
	}

	if _, err := r.Storage.MessagesPage(frame.ChatroomID, frame.UserID, defaultPage, defaultPageSize); err != nil {
		log.Printf("message page fetch failed for conversation %s: %v", frame.ChatroomID, err)
	}

	unread, err := r.Storage.CountUnread(frame.UserID, frame.ChatroomID)
	if err != nil {
		log.Printf("unread count failed for user %s in conversation %s: %v", frame.UserID, frame.ChatroomID, err)
		return
	}
	send(c, models.Event{Type: models.EventUnreadCount, UnreadCount: &unread})
}
