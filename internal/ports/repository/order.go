package repository

import (
	"context"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// OrderFilter пустой Statuses - все заказы
type OrderFilter struct {
	Statuses []domain.OrderStatus
}

// IOrderRepo реестр заказов
type IOrderRepo interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	// Update атомарно читает заказ, применяет fn и сохраняет результат.
	// Если fn вернула ошибку, заказ не меняется. Возвращает копию сохранённого заказа.
	Update(ctx context.Context, id string, fn func(order *domain.Order) error) (*domain.Order, error)
	// DeletePending удаляет заказ, только если он ещё pending
	DeletePending(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
}
