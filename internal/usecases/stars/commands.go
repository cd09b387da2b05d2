package stars

import (
	"context"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/usecases/stars/texts"
)

func (s *Service) HandleCommand(ctx context.Context, account *domain.Account, chatID int64, command string, args string) error {
	switch command {
	case "start":
		return s.HandleStart(ctx, account, chatID)
	case "help":
		return s.sendMessage(ctx, chatID, texts.Help)
	case "buy", "subscription":
		return s.HandleSubscription(ctx, account, chatID)
	case "ref":
		return s.HandleRef(ctx, account, chatID)
	case "cancel":
		return s.CancelFlow(ctx, account, chatID)
	case "orders":
		return s.HandleAdminOrders(ctx, account, chatID)
	case "stats":
		return s.HandleAdminStats(ctx, account, chatID)
	case "export":
		return s.HandleAdminExport(ctx, account, chatID)
	default:
		return s.sendMessage(ctx, chatID, texts.FormatUnknownCommand(command))
	}
}

// HandleStart реферер уже сохранён при создании аккаунта, здесь только сброс диалога
func (s *Service) HandleStart(ctx context.Context, account *domain.Account, chatID int64) error {
	if err := s.Conversations.Clear(ctx, account.UserID); err != nil {
		s.Log.Warn("failed to reset conversation",
			"error", err,
			"user_id", account.UserID,
		)
	}

	return s.sendMessageWithKeyboard(ctx, chatID, texts.Start, mainKeyboard())
}

func (s *Service) HandleRef(ctx context.Context, account *domain.Account, chatID int64) error {
	return s.sendMessage(ctx, chatID, texts.FormatReferralLink(s.Cfg.BotUsername, account.UserID))
}
