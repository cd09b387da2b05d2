package domain

import (
	"fmt"
	"time"
)

// TimestampLayout формат хранения subscription_until в таблице users
const TimestampLayout = "2006-01-02 15:04:05"

// Account пользователь бота с подпиской
type Account struct {
	UserID            int64      `json:"user_id"`
	Username          string     `json:"username"`
	SubscriptionUntil *time.Time `json:"subscription_until,omitempty"`
	ReferrerID        *int64     `json:"referrer_id,omitempty"`
}

// HasUsername username обязателен для оформления заказа
func (a *Account) HasUsername() bool {
	return a != nil && a.Username != ""
}

// SubscriptionActive подписка действует строго в будущее
func (a *Account) SubscriptionActive(now time.Time) bool {
	return a.SubscriptionUntil != nil && a.SubscriptionUntil.After(now)
}

// ExpiresWithin true если до окончания подписки осталось от 0 до window включительно
func (a *Account) ExpiresWithin(now time.Time, window time.Duration) bool {
	if a.SubscriptionUntil == nil {
		return false
	}
	remaining := a.SubscriptionUntil.Sub(now)
	return remaining >= 0 && remaining <= window
}

// ExtendedUntil считает новую дату окончания: max(now, текущая) + days.
// Дата подписки только сдвигается вперёд.
func (a *Account) ExtendedUntil(now time.Time, days int) time.Time {
	base := now
	if a.SubscriptionUntil != nil && a.SubscriptionUntil.After(now) {
		base = *a.SubscriptionUntil
	}
	return TruncateTimestamp(base.AddDate(0, 0, days))
}

// FormatTimestamp приводит время к формату хранения (UTC, секунды)
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp разбирает строку из колонки subscription_until
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// TruncateTimestamp отбрасывает всё, что не переживёт хранение в строке
func TruncateTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
