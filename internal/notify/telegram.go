// Package notify delivers offline push notifications. The relay calls it
// when a message's receiver has no live connection; delivery goes to the
// Telegram chat the user linked to their account.
package notify

import (
	"errors"
	"fmt"
	"log"

	"sparmatch/backend/internal/models"
	"sparmatch/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrNoPushTarget is returned when the user exists but has no push target
// registered. Callers treat it differently from a transient delivery
// failure, though neither may propagate into a message-send flow.
var ErrNoPushTarget = errors.New("notify: no push target registered for user")

// Gateway is the push-notification collaborator consumed by the relay.
type Gateway interface {
	NotifyUser(userID, title, body string) error
}

// Sender is the slice of the Telegram Bot API the gateway uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramGateway implements Gateway against the Telegram Bot API. Each
// notification is persisted before delivery is attempted, so the history
// endpoint still shows pushes that failed in transit.
type TelegramGateway struct {
	Bot     Sender
	Storage storage.Storage
}

func NewTelegramGateway(token string, s storage.Storage) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("notification gateway authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{Bot: bot, Storage: s}, nil
}

func (g *TelegramGateway) NotifyUser(userID, title, body string) error {
	user, err := g.Storage.GetUser(userID)
	if err != nil {
		return err
	}
	if user == nil || user.TelegramChatID == 0 {
		return ErrNoPushTarget
	}

	if err := g.Storage.SaveNotification(&models.Notification{
		ReceiverID: userID,
		Title:      title,
		Body:       body,
	}); err != nil {
		log.Printf("failed to record notification for %s: %v", userID, err)
	}

	msg := tgbotapi.NewMessage(user.TelegramChatID, title+"\n"+body)
	if _, err := g.Bot.Send(msg); err != nil {
		return fmt.Errorf("telegram delivery to %s failed: %w", userID, err)
	}
	return nil
}
