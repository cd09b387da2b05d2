package stars

import (
	"context"
	"fmt"
	"strings"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/usecases/stars/texts"
)

// HandleText кнопки основной клавиатуры или ввод заказа, если диалог его ждёт
func (s *Service) HandleText(ctx context.Context, account *domain.Account, chatID int64, text string) error {
	switch strings.TrimSpace(text) {
	case texts.ButtonForSelf:
		return s.StartFlow(ctx, account, chatID, true)
	case texts.ButtonForFriend:
		return s.StartFlow(ctx, account, chatID, false)
	}

	conv, err := s.Conversations.Get(ctx, account.UserID)
	if err != nil {
		s.Log.Error("failed to get conversation",
			"error", err,
			"user_id", account.UserID,
		)
		_ = s.sendMessage(ctx, chatID, texts.ErrorGeneric)
		return fmt.Errorf("failed to get conversation: %w", err)
	}

	if !conv.ExpectsOrderInput() {
		return s.sendMessageWithKeyboard(ctx, chatID, texts.ChooseTarget, mainKeyboard())
	}

	return s.HandleOrderInput(ctx, account, chatID, conv, text)
}
