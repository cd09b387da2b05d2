package stars

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/usecases/stars/texts"
)

// HandleSubscription статус подписки или предложение оплатить снова
func (s *Service) HandleSubscription(ctx context.Context, account *domain.Account, chatID int64) error {
	if account.SubscriptionActive(s.now()) {
		return s.sendMessage(ctx, chatID, texts.FormatSubscriptionActive(*account.SubscriptionUntil))
	}

	var instr domain.PaymentInstruction
	if s.PaymentProvider.Mode() == domain.PaymentModeManual {
		// карта одна на все заказы
		var err error
		instr, err = s.PaymentProvider.Instruction(ctx, nil)
		if err != nil {
			s.Log.Warn("failed to get payment instruction", "error", err)
		}
	}

	return s.sendMessageWithKeyboard(ctx, chatID, texts.FormatSubscriptionExpired(instr), mainKeyboard())
}

// SendExpiryReminders одно напоминание за проход каждому, у кого подписка кончается в пределах окна.
// Между проходами не дедуплицируется. Ошибка доставки одному не останавливает остальных.
func (s *Service) SendExpiryReminders(ctx context.Context) (int, error) {
	accounts, err := s.AccountRepo.ListWithSubscription(ctx)
	if err != nil {
		s.Log.Error("failed to list accounts for reminders", "error", err)
		return 0, fmt.Errorf("failed to list accounts: %w", err)
	}

	now := s.now()
	sent, failed := 0, 0
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if !account.ExpiresWithin(now, s.Cfg.ReminderWindow) {
			continue
		}

		if err := s.sendMessage(ctx, account.UserID, texts.FormatExpiryReminder(*account.SubscriptionUntil)); err != nil {
			failed++
			s.Log.Warn("expiry reminder not delivered", "error", err, "user_id", account.UserID)
			continue
		}
		sent++
	}

	s.Log.Info("expiry reminders sweep finished",
		"checked", len(accounts),
		"sent", sent,
		"failed", failed,
	)
	return sent, nil
}
