package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/admin/tg-bots/stars-bot/internal/ports/usecase"
)

const (
	expiryReminderName = "expiry-reminder"

	// DefaultExpiryReminderSchedule раз в час
	DefaultExpiryReminderSchedule = "@every 1h"
)

// ExpiryReminder напоминает тем, у кого подписка кончается в ближайшие сутки
type ExpiryReminder struct {
	reminders usecase.IReminderUseCase
	schedule  cron.Schedule
	log       *slog.Logger
}

// NewExpiryReminder spec в формате cron (5 полей) или дескриптор вида "@every 1h"
func NewExpiryReminder(reminders usecase.IReminderUseCase, spec string, log *slog.Logger) (*ExpiryReminder, error) {
	if spec == "" {
		spec = DefaultExpiryReminderSchedule
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry reminder schedule %q: %w", spec, err)
	}

	return &ExpiryReminder{
		reminders: reminders,
		schedule:  schedule,
		log:       log,
	}, nil
}

func (j *ExpiryReminder) Name() string {
	return expiryReminderName
}

func (j *ExpiryReminder) NextRun(now time.Time) time.Time {
	return j.schedule.Next(now)
}

func (j *ExpiryReminder) Run(ctx context.Context) error {
	sent, err := j.reminders.SendExpiryReminders(ctx)
	if err != nil {
		return err
	}
	j.log.Debug("expiry reminders sent", "count", sent)
	return nil
}
