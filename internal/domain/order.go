package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive заказ ещё ждёт оплаты или выполнения
func (s OrderStatus) IsActive() bool {
	return s == OrderStatusPending || s == OrderStatusPaid
}

// Order заказ на покупку звёзд
type Order struct {
	ID          string          `json:"order_id" db:"order_id"`
	UserID      int64           `json:"user_id" db:"user_id"`
	Username    string          `json:"username" db:"username"`
	Recipient   string          `json:"recipient" db:"recipient"`
	StarsCount  int             `json:"stars_count" db:"stars_count"`
	Cost        decimal.Decimal `json:"cost" db:"cost"`
	Status      OrderStatus     `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	PaidAt      *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}

// NewOrderID id вида <user_id>_<unix_millis>
func NewOrderID(userID int64, now time.Time) string {
	return fmt.Sprintf("%d_%d", userID, now.UnixMilli())
}

func NewOrder(requester *Account, input OrderInput, cost decimal.Decimal, now time.Time) *Order {
	return &Order{
		ID:         NewOrderID(requester.UserID, now),
		UserID:     requester.UserID,
		Username:   requester.Username,
		Recipient:  input.Recipient,
		StarsCount: input.Quantity,
		Cost:       cost,
		Status:     OrderStatusPending,
		CreatedAt:  now,
	}
}

// MarkPaid pending -> paid
func (o *Order) MarkPaid(now time.Time) error {
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, OrderStatusPaid)
	}
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	return nil
}

// Complete paid -> completed
func (o *Order) Complete(now time.Time) error {
	if o.Status != OrderStatusPaid {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, OrderStatusCompleted)
	}
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	return nil
}

// Cancel pending|paid -> cancelled
func (o *Order) Cancel() error {
	if !o.Status.IsActive() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, OrderStatusCancelled)
	}
	o.Status = OrderStatusCancelled
	return nil
}

// Clone копия для хранилищ, которые не должны отдавать свои указатели наружу
func (o *Order) Clone() *Order {
	c := *o
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// OrderStats сводка по заказам для админа
type OrderStats struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Paid      int             `json:"paid"`
	Completed int             `json:"completed"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CalculateStats выручка считается по оплаченным и выполненным заказам
func CalculateStats(orders []*Order) OrderStats {
	stats := OrderStats{Revenue: decimal.Zero}
	for _, o := range orders {
		stats.Total++
		switch o.Status {
		case OrderStatusPending:
			stats.Pending++
		case OrderStatusPaid:
			stats.Paid++
			stats.Revenue = stats.Revenue.Add(o.Cost)
		case OrderStatusCompleted:
			stats.Completed++
			stats.Revenue = stats.Revenue.Add(o.Cost)
		case OrderStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}
