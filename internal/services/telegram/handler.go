package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// HandleUpdate Основной метод для обработки всех типов обновлений
func (s *Service) HandleUpdate(ctx context.Context, update *domain.Update) error {
	if update == nil {
		return fmt.Errorf("update is nil")
	}
	if s.BotService == nil {
		return fmt.Errorf("bot service is not configured")
	}

	if update.CallbackQuery != nil {
		return s.HandleCallbackQuery(ctx, update.CallbackQuery, update.UpdateID)
	}

	if update.Message != nil {
		return s.HandleMessage(ctx, update.Message, update.UpdateID)
	}

	return nil
}

// HandleMessage обрабатывает входящее сообщение - роутинг в usecase
func (s *Service) HandleMessage(ctx context.Context, message *domain.Message, updateID int64) error {
	if message == nil {
		return fmt.Errorf("message is nil")
	}

	if message.From == nil || message.From.IsBot {
		s.Log.Debug("ignoring message from bot", "update_id", updateID)
		return nil
	}

	if message.Chat != nil && message.Chat.Type != "private" {
		s.Log.Warn("ignoring message from group/chat",
			"update_id", updateID,
			"chat_type", message.Chat.Type,
			"chat_id", message.Chat.ID,
		)
		return nil
	}

	if message.Text == nil {
		return nil
	}
	text := strings.TrimSpace(*message.Text)

	var referrerID *int64
	if IsCommand(text) && ParseCommand(text) == "start" {
		referrerID = ParseReferrer(ParseCommandArgs(text))
	}

	account, err := s.BotService.GetOrCreateAccount(ctx, message.From, referrerID)
	if err != nil {
		s.Log.Error("failed to get or create account",
			"error", err,
			"user_id", message.From.ID,
			"update_id", updateID,
		)
		return fmt.Errorf("failed to get or create account: %w", err)
	}

	chatID := message.From.ID
	if message.Chat != nil {
		chatID = message.Chat.ID
	}

	if IsCommand(text) {
		return s.BotService.HandleCommand(ctx, account, chatID, ParseCommand(text), ParseCommandArgs(text))
	}

	return s.BotService.HandleText(ctx, account, chatID, text)
}

// HandleCallbackQuery нажатие inline кнопки
func (s *Service) HandleCallbackQuery(ctx context.Context, query *domain.CallbackQuery, updateID int64) error {
	if query.From == nil || query.From.IsBot {
		s.Log.Debug("ignoring callback from bot", "update_id", updateID)
		return nil
	}

	account, err := s.BotService.GetOrCreateAccount(ctx, query.From, nil)
	if err != nil {
		s.Log.Error("failed to get or create account",
			"error", err,
			"user_id", query.From.ID,
			"update_id", updateID,
		)
		return fmt.Errorf("failed to get or create account: %w", err)
	}

	return s.BotService.HandleCallback(ctx, account, query)
}

func ParseCommand(text string) string {
	text = strings.TrimPrefix(text, "/")

	if idx := strings.Index(text, " "); idx != -1 {
		text = text[:idx]
	}

	if idx := strings.Index(text, "@"); idx != -1 {
		text = text[:idx]
	}

	return text
}

// ParseCommandArgs "/start 123" -> "123"
func ParseCommandArgs(text string) string {
	if idx := strings.Index(text, " "); idx != -1 {
		return strings.TrimSpace(text[idx+1:])
	}
	return ""
}

// ParseReferrer deep-link /start <user_id>, всё нечисловое игнорируется
func ParseReferrer(args string) *int64 {
	if args == "" {
		return nil
	}
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func IsCommand(text string) bool {
	return len(text) > 0 && text[0] == '/'
}
