package orderRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/persistence"
	ports "github.com/admin/tg-bots/stars-bot/internal/ports/repository"
)

type orderColumns struct {
	TableName   string
	ID          string
	UserID      string
	Username    string
	Recipient   string
	StarsCount  string
	Cost        string
	Status      string
	CreatedAt   string
	PaidAt      string
	CompletedAt string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns orderColumns
}

// New создаёт репозиторий заказов поверх postgres
func New(db persistence.Persistence, log *slog.Logger) ports.IOrderRepo {
	cols := orderColumns{
		TableName:   "orders",
		ID:          "order_id",
		UserID:      "user_id",
		Username:    "username",
		Recipient:   "recipient",
		StarsCount:  "stars_count",
		Cost:        "cost",
		Status:      "status",
		CreatedAt:   "created_at",
		PaidAt:      "paid_at",
		CompletedAt: "completed_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками (10 колонок)
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UserID,
		r.columns.Username,
		r.columns.Recipient,
		r.columns.StarsCount,
		r.columns.Cost,
		r.columns.Status,
		r.columns.CreatedAt,
		r.columns.PaidAt,
		r.columns.CompletedAt)
}

// Create сохраняет новый заказ
func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.Username,
		order.Recipient,
		order.StarsCount,
		order.Cost,
		order.Status,
		order.CreatedAt,
		order.PaidAt,
		order.CompletedAt)
	if err != nil {
		r.Log.Error("failed to create order",
			"error", err,
			"order_id", order.ID,
			"user_id", order.UserID)
		return fmt.Errorf("failed to create order: %w", err)
	}
	r.Log.Debug("order created successfully",
		"order_id", order.ID,
		"user_id", order.UserID)
	return nil
}

// Get получает заказ по id
func (r *Repository) Get(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)

	var order domain.Order
	if err := r.db.Get(ctx, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
		}
		r.Log.Error("failed to get order",
			"error", err,
			"order_id", id)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// Update читает заказ под FOR UPDATE, применяет fn и сохраняет в той же транзакции.
// Вебхук кассы и кнопки админа не перезапишут друг друга.
func (r *Repository) Update(ctx context.Context, id string, fn func(order *domain.Order) error) (*domain.Order, error) {
	var (
		current *domain.Order
		result  *domain.Order
	)

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		selectQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			r.allColumns(),
			r.columns.TableName,
			r.columns.ID)

		var order domain.Order
		if err := tx.Get(ctx, &order, selectQuery, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}
		current = order.Clone()

		if err := fn(&order); err != nil {
			return err
		}

		updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4 WHERE %s = $5`,
			r.columns.TableName,
			r.columns.Status,
			r.columns.Cost,
			r.columns.PaidAt,
			r.columns.CompletedAt,
			r.columns.ID)
		if err := tx.Exec(ctx, updateQuery, order.Status, order.Cost, order.PaidAt, order.CompletedAt, id); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		result = &order
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) && !errors.Is(err, domain.ErrInvalidTransition) {
			r.Log.Error("failed to update order",
				"error", err,
				"order_id", id)
		}
		return current, err
	}

	r.Log.Debug("order updated",
		"order_id", id,
		"status", result.Status)
	return result, nil
}

// DeletePending удаляет заказ, только пока он не оплачен
func (r *Repository) DeletePending(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		r.columns.TableName,
		r.columns.ID,
		r.columns.Status)

	affected, err := r.db.ExecWithResult(ctx, query, id, domain.OrderStatusPending)
	if err != nil {
		r.Log.Error("failed to delete pending order",
			"error", err,
			"order_id", id)
		return false, fmt.Errorf("failed to delete pending order: %w", err)
	}
	return affected > 0, nil
}

// List заказы по фильтру статусов, по времени создания
func (r *Repository) List(ctx context.Context, filter ports.OrderFilter) ([]*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`,
		r.allColumns(),
		r.columns.TableName)

	var args []interface{}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, s.String())
		}
		query += fmt.Sprintf(` WHERE %s = ANY($1)`, r.columns.Status)
		args = append(args, statuses)
	}
	query += fmt.Sprintf(` ORDER BY %s, %s`, r.columns.CreatedAt, r.columns.ID)

	var orders []*domain.Order
	if err := r.db.Select(ctx, &orders, query, args...); err != nil {
		r.Log.Error("failed to list orders",
			"error", err,
			"statuses", filter.Statuses)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
