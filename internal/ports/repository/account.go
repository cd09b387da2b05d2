package repository

import (
	"context"
	"time"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// IAccountRepo таблица users: пользователи и их подписки
type IAccountRepo interface {
	// GetOrCreate создаёт аккаунт при первом контакте, иначе обновляет username.
	// referrerID сохраняется только при создании.
	GetOrCreate(ctx context.Context, userID int64, username string, referrerID *int64) (*domain.Account, error)
	Get(ctx context.Context, userID int64) (*domain.Account, error)
	// ExtendSubscription продлевает подписку на days дней от max(now, текущая дата)
	ExtendSubscription(ctx context.Context, userID int64, days int, now time.Time) (*domain.Account, error)
	ListWithSubscription(ctx context.Context) ([]*domain.Account, error)
}
