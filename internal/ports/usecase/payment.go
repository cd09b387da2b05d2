package usecase

import (
	"context"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// IPaymentUseCase обработка уведомлений кассы
type IPaymentUseCase interface {
	ConfirmPayment(ctx context.Context, n domain.PaymentNotification) (domain.PaymentOutcome, error)
}
