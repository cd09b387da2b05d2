package kafka

import (
	"context"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// IOrderEventPublisher публикует события жизненного цикла заказа
type IOrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
	Close() error
}
