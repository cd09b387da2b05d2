package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	OrderEventCreated   OrderEventType = "order.created"
	OrderEventPaid      OrderEventType = "order.paid"
	OrderEventCompleted OrderEventType = "order.completed"
	OrderEventCancelled OrderEventType = "order.cancelled"
)

// OrderEvent событие жизненного цикла заказа для внешних потребителей
type OrderEvent struct {
	EventID    string          `json:"event_id"`
	Type       OrderEventType  `json:"type"`
	OrderID    string          `json:"order_id"`
	UserID     int64           `json:"user_id"`
	Recipient  string          `json:"recipient"`
	StarsCount int             `json:"stars_count"`
	Cost       decimal.Decimal `json:"cost"`
	Status     OrderStatus     `json:"status"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewOrderEvent(eventID string, eventType OrderEventType, order *Order, now time.Time) OrderEvent {
	return OrderEvent{
		EventID:    eventID,
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Recipient:  order.Recipient,
		StarsCount: order.StarsCount,
		Cost:       order.Cost,
		Status:     order.Status,
		OccurredAt: now,
	}
}
