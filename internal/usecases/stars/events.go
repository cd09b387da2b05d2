package stars

import (
	"context"

	"github.com/google/uuid"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// publishEvent события best-effort, заказ уже сохранён
func (s *Service) publishEvent(ctx context.Context, eventType domain.OrderEventType, order *domain.Order) {
	if s.EventPublisher == nil {
		return
	}

	event := domain.NewOrderEvent(uuid.NewString(), eventType, order, s.now())
	if err := s.EventPublisher.PublishOrderEvent(ctx, event); err != nil {
		s.Log.Warn("failed to publish order event",
			"error", err,
			"order_id", order.ID,
			"event_type", eventType,
		)
	}
}
