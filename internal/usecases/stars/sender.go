package stars

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// sendMessage отправляет сообщение пользователю через Telegram сервис
func (s *Service) sendMessage(ctx context.Context, chatID int64, text string) error {
	if err := s.TelegramService.SendMessage(ctx, chatID, text); err != nil {
		s.Log.Error("failed to send message",
			"error", err,
			"chat_id", chatID,
		)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// sendMessageWithKeyboard отправляет сообщение с клавиатурой
func (s *Service) sendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) error {
	if err := s.TelegramService.SendMessageWithKeyboard(ctx, chatID, text, keyboard); err != nil {
		s.Log.Error("failed to send message with keyboard",
			"error", err,
			"chat_id", chatID,
		)
		return fmt.Errorf("failed to send message with keyboard: %w", err)
	}

	return nil
}

// replyCommitted ответ пользователю после записи в реестр.
// Ошибка доставки возвращается как бизнес-ошибка, чтобы апдейт не доставлялся повторно.
func (s *Service) replyCommitted(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) error {
	var err error
	if keyboard != nil {
		err = s.sendMessageWithKeyboard(ctx, chatID, text, keyboard)
	} else {
		err = s.sendMessage(ctx, chatID, text)
	}
	return domain.WrapBusinessError(err)
}

// notify доставка best-effort: ошибка логируется и не прерывает операцию
func (s *Service) notify(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) {
	var err error
	if keyboard != nil {
		err = s.sendMessageWithKeyboard(ctx, chatID, text, keyboard)
	} else {
		err = s.sendMessage(ctx, chatID, text)
	}
	if err != nil {
		s.Log.Warn("notification not delivered", "error", err, "chat_id", chatID)
	}
}

func (s *Service) notifyAdmin(ctx context.Context, text string, keyboard *domain.Keyboard) {
	if s.Cfg.AdminID == 0 {
		s.Log.Warn("admin id is not configured, admin notification skipped")
		return
	}
	s.notify(ctx, s.Cfg.AdminID, text, keyboard)
}

func (s *Service) answerCallback(ctx context.Context, callbackID string, text string, showAlert bool) {
	if callbackID == "" {
		return
	}
	if err := s.TelegramService.AnswerCallbackQuery(ctx, callbackID, text, showAlert); err != nil {
		s.Log.Warn("failed to answer callback query",
			"error", err,
			"callback_id", callbackID,
		)
	}
}

func (s *Service) sendAlert(ctx context.Context, message string) {
	if s.AlerterService == nil {
		return
	}
	if err := s.AlerterService.SendAlert(ctx, message); err != nil {
		s.Log.Warn("failed to send alert", "error", err)
	}
}
