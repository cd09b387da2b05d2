package stars

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// GetOrCreateAccount создаёт аккаунт при первом контакте и обновляет username при каждом
func (s *Service) GetOrCreateAccount(ctx context.Context, tgUser *domain.TelegramUser, referrerID *int64) (*domain.Account, error) {
	if tgUser == nil {
		return nil, fmt.Errorf("telegram user is nil")
	}

	username := ""
	if tgUser.Username != nil {
		username = *tgUser.Username
	}

	account, err := s.AccountRepo.GetOrCreate(ctx, tgUser.ID, username, referrerID)
	if err != nil {
		s.Log.Error("failed to get or create account",
			"error", err,
			"user_id", tgUser.ID,
		)
		return nil, fmt.Errorf("failed to get or create account: %w", err)
	}

	return account, nil
}
