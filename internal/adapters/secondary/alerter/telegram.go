package alerter

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/telegram"
)

//согл, что чистота нарушена, но тут выбор в пользу делегирования ответственности другому адаптеру

// Sender то, что нужно алертеру от telegram клиента
type Sender interface {
	SendMessageToThread(ctx context.Context, chatID int64, text string, threadID *int64) error
}

var _ Sender = (*telegram.Client)(nil)

// Client клиент для отправки алертов через Telegram
type Client struct {
	sender          Sender
	chatID          int64
	messageThreadID *int64
	log             *slog.Logger
}

// NewClient создаёт клиент для алертов. Если в конфиге свой токен, поднимает отдельного бота.
func NewClient(cfg *Config, fallback *telegram.Client, log *slog.Logger) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, nil
	}

	var sender Sender = fallback
	if cfg.BotToken != "" {
		tgClient, err := telegram.NewClient(cfg.BotToken, false, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init alerter bot: %w", err)
		}
		sender = tgClient
	}

	return newClient(sender, cfg.ChatID, cfg.MessageThreadID, log), nil
}

func newClient(sender Sender, chatID int64, threadID *int64, log *slog.Logger) *Client {
	return &Client{
		sender:          sender,
		chatID:          chatID,
		messageThreadID: threadID,
		log:             log,
	}
}

// SendAlert отправляет алерт в Telegram группу (или топик форума)
func (c *Client) SendAlert(ctx context.Context, message string) error {
	if c == nil || c.sender == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	if err := c.sender.SendMessageToThread(ctx, c.chatID, message, c.messageThreadID); err != nil {
		c.log.Warn("failed to send alert",
			"error", err,
			"chat_id", c.chatID,
			"message_thread_id", c.messageThreadID,
		)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	c.log.Debug("alert sent successfully",
		"chat_id", c.chatID,
		"message_thread_id", c.messageThreadID,
	)

	return nil
}
