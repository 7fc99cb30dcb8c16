package relay_test

import (
	"sparmatch/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUser(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) FindOrCreateConversation(user1ID, user2ID string) (*models.Conversation, error) {
	args := m.Called(user1ID, user2ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockStorage) GetConversation(id string) (*models.Conversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockStorage) ConversationHistory(user1ID, user2ID string) (*models.ConversationHistory, error) {
	args := m.Called(user1ID, user2ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversationHistory), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) MessagesPage(conversationID, userID string, page, limit int) ([]models.Message, error) {
	args := m.Called(conversationID, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) CountUnread(userID, conversationID string) (int64, error) {
	args := m.Called(userID, conversationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MarkMessagesRead(userID, conversationID string) error {
	args := m.Called(userID, conversationID)
	return args.Error(0)
}

func (m *MockStorage) ChatList(userID string) ([]models.ChatPreview, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatPreview), args.Error(1)
}

func (m *MockStorage) SaveNotification(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockStorage) NotificationsForUser(userID string) ([]models.Notification, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) UpdateLocation(userID string, longitude, latitude float64) (*models.User, error) {
	args := m.Called(userID, longitude, latitude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) NearbyUsers(longitude, latitude, maxDistance float64) ([]models.NearbyUser, error) {
	args := m.Called(longitude, latitude, maxDistance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NearbyUser), args.Error(1)
}

// MockGateway is a testify mock of the notify.Gateway interface.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) NotifyUser(userID, title, body string) error {
	args := m.Called(userID, title, body)
	return args.Error(0)
}

// mockClient is a channel-backed test double for the relay.Client
// interface. RecvChannel is buffered so router sends never block in tests.
type mockClient struct {
	userID      string
	RecvChannel chan models.Event
}

func newMockClient(userID string) *mockClient {
	return &mockClient{
		userID:      userID,
		RecvChannel: make(chan models.Event, 10),
	}
}

func (c *mockClient) GetUserID() string                   { return c.userID }
func (c *mockClient) GetSendChannel() chan<- models.Event { return c.RecvChannel }
func (c *mockClient) Run()                                {}
func (c *mockClient) Close()                              {}

// drain collects everything currently buffered for the client.
func (c *mockClient) drain() []models.Event {
	var events []models.Event
	for {
		select {
		case ev := <-c.RecvChannel:
			events = append(events, ev)
		default:
			return events
		}
	}
}
