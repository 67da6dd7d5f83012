package notificator

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes stage failures to an admin chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(_ context.Context, err error, details string) error {
	text := fmt.Sprintf("voice agent error\n\n%v\n\n%s", err, details)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, sendErr := n.bot.Send(msg); sendErr != nil {
		log.Printf("[notificator] send fail: %v", sendErr)
		return sendErr
	}
	return nil
}

// Noop is used when no Telegram credentials are configured.
type Noop struct{}

func (Noop) Notify(context.Context, error, string) error { return nil }
