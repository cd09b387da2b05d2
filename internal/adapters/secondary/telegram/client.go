package telegram

import (
	"context"
	"fmt"

	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// Client клиент Telegram Bot API поверх telegram-bot-api
type Client struct {
	bot *tgbotapi.BotAPI
	log *slog.Logger
}

// NewClient создаёт клиент, при создании проверяет токен через getMe
func NewClient(token string, debug bool, log *slog.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot api: %w", err)
	}
	bot.Debug = debug

	log.Info("telegram bot authorized", "username", bot.Self.UserName)

	return &Client{
		bot: bot,
		log: log,
	}, nil
}

// Username имя бота без @, нужно для реферальных ссылок
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// SendMessage отправляет текстовое сообщение
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.SendMessageWithKeyboard(ctx, chatID, text, nil)
}

// SendMessageWithKeyboard отправляет сообщение с клавиатурой (inline или reply)
func (c *Client) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if markup := toReplyMarkup(keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := c.bot.Send(msg)
	if err != nil {
		c.log.Error("telegram sendMessage failed",
			"error", err,
			"chat_id", chatID,
		)
		return fmt.Errorf("telegram sendMessage: %w", err)
	}

	c.log.Debug("message sent successfully",
		"chat_id", chatID,
		"message_id", sent.MessageID,
	)
	return nil
}

// AnswerCallbackQuery убирает "часики" на нажатой inline кнопке
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := tgbotapi.NewCallback(callbackID, text)
	cfg.ShowAlert = showAlert

	if _, err := c.bot.Request(cfg); err != nil {
		c.log.Error("telegram answerCallbackQuery failed",
			"error", err,
			"callback_id", callbackID,
		)
		return fmt.Errorf("telegram answerCallbackQuery: %w", err)
	}

	c.log.Debug("callback query answered successfully", "callback_id", callbackID)
	return nil
}

// BotCommand команда в меню бота
type BotCommand struct {
	Command     string
	Description string
}

// SetMyCommands регистрирует команды бота в меню
func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tgCommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, cmd := range commands {
		tgCommands = append(tgCommands, tgbotapi.BotCommand{
			Command:     cmd.Command,
			Description: cmd.Description,
		})
	}

	if _, err := c.bot.Request(tgbotapi.NewSetMyCommands(tgCommands...)); err != nil {
		return fmt.Errorf("telegram setMyCommands: %w", err)
	}

	c.log.Info("bot commands registered successfully", "commands_count", len(commands))
	return nil
}

// SetWebhook secret_token в этой версии библиотеки нет в WebhookConfig, поэтому запрос собирается вручную
func (c *Client) SetWebhook(ctx context.Context, url string, secret string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := tgbotapi.Params{
		"url":             url,
		"allowed_updates": `["message","callback_query"]`,
	}
	if secret != "" {
		params["secret_token"] = secret
	}

	resp, err := c.bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("telegram setWebhook: %s (code: %d)", resp.Description, resp.ErrorCode)
	}

	c.log.Info("webhook set successfully", "webhook_url", url)
	return nil
}

// DeleteWebhook удаляет webhook (нужно вызывать перед запуском polling)
func (c *Client) DeleteWebhook(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("telegram deleteWebhook: %w", err)
	}

	c.log.Info("webhook deleted successfully")
	return nil
}

// SendMessageToThread отправляет сообщение в чат или топик форума.
// message_thread_id в MessageConfig этой версии библиотеки нет.
func (c *Client) SendMessageToThread(ctx context.Context, chatID int64, text string, threadID *int64) error {
	if threadID == nil {
		return c.SendMessage(ctx, chatID, text)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonZero64("message_thread_id", *threadID)
	params["text"] = text

	resp, err := c.bot.MakeRequest("sendMessage", params)
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("telegram sendMessage: %s (code: %d)", resp.Description, resp.ErrorCode)
	}
	return nil
}
