package storage

import (
	"context"
	"errors"
	"log"

	"sparmatch/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the durable-store surface consumed by the relay and the REST
// handlers. Conversation/message persistence lives in PostgreSQL; the
// location index lives in Redis (see geo.go).
type Storage interface {
	SaveUser(user *models.User) error
	GetUser(id string) (*models.User, error)

	FindOrCreateConversation(user1ID, user2ID string) (*models.Conversation, error)
	GetConversation(id string) (*models.Conversation, error)
	ConversationHistory(user1ID, user2ID string) (*models.ConversationHistory, error)
	SaveMessage(msg *models.Message) error
	MessagesPage(conversationID, userID string, page, limit int) ([]models.Message, error)
	CountUnread(userID, conversationID string) (int64, error)
	MarkMessagesRead(userID, conversationID string) error
	ChatList(userID string) ([]models.ChatPreview, error)

	SaveNotification(n *models.Notification) error
	NotificationsForUser(userID string) ([]models.Notification, error)

	UpdateLocation(userID string, longitude, latitude float64) (*models.User, error)
	NearbyUsers(longitude, latitude, maxDistance float64) ([]models.NearbyUser, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService constructor
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUser(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateConversation returns the conversation for the unordered pair
// (user1ID, user2ID), creating it if neither ordering exists yet.
func (s *Service) FindOrCreateConversation(user1ID, user2ID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.DB.
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		Or("user1_id = ? AND user2_id = ?", user2ID, user1ID).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = models.Conversation{User1ID: user1ID, User2ID: user2ID}
	if err := s.DB.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *Service) GetConversation(id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.DB.First(&conv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("conversation not found")
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ConversationHistory loads the conversation for the pair together with its
// messages ordered oldest first. Returns nil without error when the pair has
// no conversation yet.
func (s *Service) ConversationHistory(user1ID, user2ID string) (*models.ConversationHistory, error) {
	var conv models.Conversation
	err := s.DB.
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		Or("user1_id = ? AND user2_id = ?", user2ID, user1ID).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	msgs := make([]models.Message, 0)
	if err := s.DB.
		Where("conversation_id = ?", conv.ID).
		Order("created_at asc").
		Find(&msgs).Error; err != nil {
		log.Printf("ERROR: failed to load messages for conversation %s: %v", conv.ID, err)
		return nil, err
	}
	return &models.ConversationHistory{Conversation: conv, Messages: msgs}, nil
}

// SaveMessage appends a message to its conversation. The conversation must
// already exist; the generated message ID is written back into msg.
func (s *Service) SaveMessage(msg *models.Message) error {
	if _, err := s.GetConversation(msg.ConversationID); err != nil {
		return err
	}
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: failed to save message for conversation %s: %v", msg.ConversationID, err)
		return err
	}
	return nil
}

// MessagesPage fetches one page of the messages addressed to userID in the
// conversation, oldest first.
func (s *Service) MessagesPage(conversationID, userID string, page, limit int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	var msgs []models.Message
	err := s.DB.
		Where("conversation_id = ? AND receiver_id = ?", conversationID, userID).
		Order("created_at asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// CountUnread returns how many messages addressed to userID in the
// conversation are still unread.
func (s *Service) CountUnread(userID, conversationID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	return count, err
}

func (s *Service) MarkMessagesRead(userID, conversationID string) error {
	return s.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, userID, false).
		Update("is_read", true).Error
}

// ChatList returns one preview per conversation the user participates in:
// the peer profile, the latest message and the unread count.
func (s *Service) ChatList(userID string) ([]models.ChatPreview, error) {
	var convs []models.Conversation
	if err := s.DB.
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Find(&convs).Error; err != nil {
		return nil, err
	}

	previews := make([]models.ChatPreview, 0, len(convs))
	for _, conv := range convs {
		peerID := conv.User2ID
		if conv.User1ID != userID {
			peerID = conv.User1ID
		}

		preview := models.ChatPreview{ConversationID: conv.ID}

		peer, err := s.GetUser(peerID)
		if err != nil {
			return nil, err
		}
		preview.Peer = peer

		var last models.Message
		err = s.DB.
			Where("conversation_id = ?", conv.ID).
			Order("created_at desc").
			First(&last).Error
		if err == nil {
			preview.LastMessage = &last.Content
			preview.LastMessageDate = &last.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		unread, err := s.CountUnread(userID, conv.ID)
		if err != nil {
			return nil, err
		}
		preview.UnreadCount = unread

		previews = append(previews, preview)
	}
	return previews, nil
}

func (s *Service) SaveNotification(n *models.Notification) error {
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("ERROR: failed to save notification for %s: %v", n.ReceiverID, err)
		return err
	}
	return nil
}

func (s *Service) NotificationsForUser(userID string) ([]models.Notification, error) {
	var ns []models.Notification
	err := s.DB.
		Where("receiver_id = ?", userID).
		Order("created_at desc").
		Find(&ns).Error
	if err != nil {
		return nil, err
	}
	return ns, nil
}
