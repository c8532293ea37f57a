// Package telegram delivers reminders through the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned when the bot token or chat id is missing
var ErrNotConfigured = errors.New("telegram notifier is not configured")

// Sender is the part of the bot API used to post messages
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts reminders to a single chat
type Notifier struct {
	api    Sender
	chatID int64
	log    logrus.FieldLogger
}

// New authenticates with the bot token and returns a notifier for chatID
func New(token string, chatID int64, log logrus.FieldLogger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, ErrNotConfigured
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	log.WithField("bot", api.Self.UserName).Info("Authorized on Telegram")

	return NewWithSender(api, chatID, log), nil
}

// NewWithSender returns a notifier that posts through api
func NewWithSender(api Sender, chatID int64, log logrus.FieldLogger) *Notifier {
	return &Notifier{api: api, chatID: chatID, log: log}
}

// SendReminder implements scheduler.Notifier
func (n *Notifier) SendReminder(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to chat %d: %w", n.chatID, err)
	}

	n.log.WithField("chat_id", n.chatID).Info("Successfully sent reminder")
	return nil
}
