package accountRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	ports "github.com/admin/tg-bots/stars-bot/internal/ports/repository"
)

// accountRecord та же таблица users, что и у однофайловой sqlite версии бота
type accountRecord struct {
	UserID            int64          `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Username          string         `gorm:"column:username"`
	SubscriptionUntil sql.NullString `gorm:"column:subscription_until"`
	ReferrerID        sql.NullInt64  `gorm:"column:referrer_id"`
}

func (accountRecord) TableName() string {
	return "users"
}

func (r accountRecord) toRow() accountRow {
	return accountRow{
		UserID:            r.UserID,
		Username:          r.Username,
		SubscriptionUntil: r.SubscriptionUntil,
		ReferrerID:        r.ReferrerID,
	}
}

type GormRepository struct {
	db  *gorm.DB
	Log *slog.Logger
}

// NewGorm репозиторий аккаунтов для sqlite, создаёт таблицу при старте
func NewGorm(db *gorm.DB, log *slog.Logger) (ports.IAccountRepo, error) {
	if err := db.AutoMigrate(&accountRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate users table: %w", err)
	}
	return &GormRepository{
		db:  db,
		Log: log,
	}, nil
}

func (r *GormRepository) GetOrCreate(ctx context.Context, userID int64, username string, referrerID *int64) (*domain.Account, error) {
	rec := accountRecord{
		UserID:   userID,
		Username: username,
	}
	if referrerID != nil && *referrerID != userID {
		rec.ReferrerID = sql.NullInt64{Int64: *referrerID, Valid: true}
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username"}),
	}).Create(&rec).Error
	if err != nil {
		r.Log.Error("failed to upsert account",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}

	return r.Get(ctx, userID)
}

func (r *GormRepository) Get(ctx context.Context, userID int64) (*domain.Account, error) {
	var rec accountRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		r.Log.Error("failed to get account",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return rec.toRow().toDomain()
}

// ExtendSubscription sqlite сериализует пишущие транзакции, FOR UPDATE не нужен
func (r *GormRepository) ExtendSubscription(ctx context.Context, userID int64, days int, now time.Time) (*domain.Account, error) {
	var result *domain.Account

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec accountRecord
		if err := tx.Where("user_id = ?", userID).Take(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return fmt.Errorf("failed to get account: %w", err)
		}

		acc, err := rec.toRow().toDomain()
		if err != nil {
			return err
		}

		until := acc.ExtendedUntil(now, days)
		err = tx.Model(&accountRecord{}).
			Where("user_id = ?", userID).
			Update("subscription_until", domain.FormatTimestamp(until)).Error
		if err != nil {
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

	return result, nil
}

func (r *GormRepository) ListWithSubscription(ctx context.Context) ([]*domain.Account, error) {
	var recs []accountRecord
	err := r.db.WithContext(ctx).
		Where("subscription_until IS NOT NULL AND subscription_until <> ''").
		Order("user_id").
		Find(&recs).Error
	if err != nil {
		r.Log.Error("failed to list accounts with subscription", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	rows := make([]accountRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, rec.toRow())
	}
	return toDomainList(rows, r.Log), nil
}
