package usecase

import "context"

// IReminderUseCase напоминания об окончании подписки, вызывается джобой
type IReminderUseCase interface {
	SendExpiryReminders(ctx context.Context) (int, error)
}
