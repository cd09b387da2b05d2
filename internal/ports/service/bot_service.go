package service

import (
	"context"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// IBotService бизнес-логика бота, в неё роутит telegram сервис
type IBotService interface {
	GetOrCreateAccount(ctx context.Context, tgUser *domain.TelegramUser, referrerID *int64) (*domain.Account, error)
	HandleCommand(ctx context.Context, account *domain.Account, chatID int64, command string, args string) error
	HandleText(ctx context.Context, account *domain.Account, chatID int64, text string) error
	HandleCallback(ctx context.Context, account *domain.Account, query *domain.CallbackQuery) error
}
