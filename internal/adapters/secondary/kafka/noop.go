package kafka

import (
	"context"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	kafkaPort "github.com/admin/tg-bots/stars-bot/internal/ports/kafka"
)

// LogPublisher используется, когда брокеры не настроены: события только пишутся в debug лог
type LogPublisher struct {
	log *slog.Logger
}

var _ kafkaPort.IOrderEventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishOrderEvent(_ context.Context, event domain.OrderEvent) error {
	p.log.Debug("order event",
		"event_type", event.Type,
		"order_id", event.OrderID,
		"status", event.Status,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
