package manual

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/stars-bot/internal/ports/payment"
)

var _ paymentPort.IPaymentProvider = (*Provider)(nil)

// Provider перевод на карту. Оплату подтверждает админ, уведомлений от кассы нет.
type Provider struct {
	cardNumber string
}

func NewProvider(cfg *Config) (*Provider, error) {
	if cfg.CardNumber == "" {
		return nil, fmt.Errorf("card number is required for manual payment mode")
	}
	return &Provider{cardNumber: cfg.CardNumber}, nil
}

func (p *Provider) Mode() domain.PaymentMode {
	return domain.PaymentModeManual
}

func (p *Provider) Instruction(_ context.Context, _ *domain.Order) (domain.PaymentInstruction, error) {
	return domain.PaymentInstruction{CardNumber: p.cardNumber}, nil
}

// VerifyNotification в ручном режиме callback кассы не принимается
func (p *Provider) VerifyNotification(_ domain.PaymentNotification) error {
	return domain.ErrInvalidSignature
}
