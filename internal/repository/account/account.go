package accountRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/persistence"
	ports "github.com/admin/tg-bots/stars-bot/internal/ports/repository"
)

type accountColumns struct {
	TableName         string
	UserID            string
	Username          string
	SubscriptionUntil string
	ReferrerID        string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns accountColumns
}

// New создаёт репозиторий аккаунтов поверх postgres
func New(db persistence.Persistence, log *slog.Logger) ports.IAccountRepo {
	cols := accountColumns{
		TableName:         "users",
		UserID:            "user_id",
		Username:          "username",
		SubscriptionUntil: "subscription_until",
		ReferrerID:        "referrer_id",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// accountRow subscription_until хранится строкой в формате domain.TimestampLayout
type accountRow struct {
	UserID            int64          `db:"user_id"`
	Username          string         `db:"username"`
	SubscriptionUntil sql.NullString `db:"subscription_until"`
	ReferrerID        sql.NullInt64  `db:"referrer_id"`
}

func (r accountRow) toDomain() (*domain.Account, error) {
	acc := &domain.Account{
		UserID:   r.UserID,
		Username: r.Username,
	}
	if r.SubscriptionUntil.Valid && r.SubscriptionUntil.String != "" {
		until, err := domain.ParseTimestamp(r.SubscriptionUntil.String)
		if err != nil {
			return nil, err
		}
		acc.SubscriptionUntil = &until
	}
	if r.ReferrerID.Valid {
		ref := r.ReferrerID.Int64
		acc.ReferrerID = &ref
	}
	return acc, nil
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s",
		r.columns.UserID,
		r.columns.Username,
		r.columns.SubscriptionUntil,
		r.columns.ReferrerID)
}

// GetOrCreate вставляет аккаунт или обновляет username существующего
func (r *Repository) GetOrCreate(ctx context.Context, userID int64, username string, referrerID *int64) (*domain.Account, error) {
	var ref sql.NullInt64
	if referrerID != nil && *referrerID != userID {
		ref = sql.NullInt64{Int64: *referrerID, Valid: true}
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING %s`,
		r.columns.TableName,
		r.columns.UserID, r.columns.Username, r.columns.ReferrerID,
		r.columns.UserID,
		r.columns.Username, r.columns.Username,
		r.allColumns())

	var row accountRow
	if err := r.db.Get(ctx, &row, query, userID, username, ref); err != nil {
		r.Log.Error("failed to upsert account",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}

	return row.toDomain()
}

// Get получает аккаунт по Telegram user id
func (r *Repository) Get(ctx context.Context, userID int64) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID)

	var row accountRow
	if err := r.db.Get(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		r.Log.Error("failed to get account",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return row.toDomain()
}

// ExtendSubscription блокирует строку, чтобы два продления подряд не потеряли дни
func (r *Repository) ExtendSubscription(ctx context.Context, userID int64, days int, now time.Time) (*domain.Account, error) {
	var result *domain.Account

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		selectQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			r.allColumns(),
			r.columns.TableName,
			r.columns.UserID)

		var row accountRow
		if err := tx.Get(ctx, &row, selectQuery, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrAccountNotFound
			}
			return fmt.Errorf("failed to lock account: %w", err)
		}

		acc, err := row.toDomain()
		if err != nil {
			return err
		}

		until := acc.ExtendedUntil(now, days)
		updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
			r.columns.TableName,
			r.columns.SubscriptionUntil,
			r.columns.UserID)
		if err := tx.Exec(ctx, updateQuery, domain.FormatTimestamp(until), userID); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		acc.SubscriptionUntil = &until
		result = acc
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			r.Log.Error("failed to extend subscription",
				"error", err,
				"user_id", userID,
				"days", days)
		}
		return nil, err
	}

	r.Log.Debug("subscription extended",
		"user_id", userID,
		"subscription_until", domain.FormatTimestamp(*result.SubscriptionUntil))
	return result, nil
}

// ListWithSubscription все аккаунты с заданной датой подписки (для напоминаний)
func (r *Repository) ListWithSubscription(ctx context.Context) ([]*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s IS NOT NULL AND %s <> '' ORDER BY %s`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.SubscriptionUntil,
		r.columns.SubscriptionUntil,
		r.columns.UserID)

	var rows []accountRow
	if err := r.db.Select(ctx, &rows, query); err != nil {
		r.Log.Error("failed to list accounts with subscription", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return toDomainList(rows, r.Log), nil
}

// toDomainList битая дата у одной строки не должна ломать весь список
func toDomainList(rows []accountRow, log *slog.Logger) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		acc, err := row.toDomain()
		if err != nil {
			log.Warn("skipping account with malformed subscription date",
				"error", err,
				"user_id", row.UserID)
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts
}
