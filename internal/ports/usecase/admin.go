package usecase

import (
	"context"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// IAdminUseCase чтение реестра заказов для админки
type IAdminUseCase interface {
	ListOrders(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error)
	Stats(ctx context.Context) (domain.OrderStats, error)
}
