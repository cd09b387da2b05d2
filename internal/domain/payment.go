package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentMode способ подтверждения оплаты, один на деплой
type PaymentMode string

const (
	// PaymentModeManual перевод на карту, оплату подтверждает админ
	PaymentModeManual PaymentMode = "manual"
	// PaymentModeWebhook ссылка на кассу и подписанный callback
	PaymentModeWebhook PaymentMode = "webhook"
)

func (m PaymentMode) IsValid() bool {
	return m == PaymentModeManual || m == PaymentModeWebhook
}

// PaymentInstruction что показать пользователю для оплаты заказа
type PaymentInstruction struct {
	// CardNumber номер карты для ручного перевода
	CardNumber string
	// URL ссылка на оплату в кассе
	URL string
}

// PaymentNotification уведомление кассы об оплате (form-поля callback'а)
type PaymentNotification struct {
	MerchantID string
	Amount     string
	OrderID    string
	Sign       string
	UserID     string
}

// AmountDecimal сумма из уведомления
func (n PaymentNotification) AmountDecimal() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(n.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrInvalidAmount, n.Amount, err)
	}
	return amount, nil
}

// PaymentOutcome чем закончилась обработка уведомления
type PaymentOutcome string

const (
	PaymentAccepted      PaymentOutcome = "accepted"
	PaymentAlreadyPaid   PaymentOutcome = "already_paid"
	PaymentUnknownOrder  PaymentOutcome = "unknown_order"
	PaymentUnderpaid     PaymentOutcome = "underpaid"
	PaymentNotApplicable PaymentOutcome = "not_applicable"
)
