package payment

import (
	"context"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// IPaymentProvider способ оплаты заказа. Use case не знает деталей кассы.
type IPaymentProvider interface {
	Mode() domain.PaymentMode
	// Instruction реквизиты или ссылка на оплату заказа
	Instruction(ctx context.Context, order *domain.Order) (domain.PaymentInstruction, error)
	// VerifyNotification проверяет подпись уведомления кассы, при несовпадении domain.ErrInvalidSignature
	VerifyNotification(n domain.PaymentNotification) error
}
