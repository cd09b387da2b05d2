package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/stars-bot/internal/ports/payment"
	"github.com/admin/tg-bots/stars-bot/internal/ports/repository"
	"github.com/admin/tg-bots/stars-bot/internal/ports/service"
	"github.com/admin/tg-bots/stars-bot/internal/ports/usecase"
)

// PaidOrderHandler реакция на переход заказа в paid (уведомления, подписка, события)
type PaidOrderHandler interface {
	OnOrderPaid(ctx context.Context, order *domain.Order)
}

type Service struct {
	OrderRepo       repository.IOrderRepo
	PaymentProvider paymentPort.IPaymentProvider
	PaidHandler     PaidOrderHandler
	AlerterService  service.IAlerterService
	Now             func() time.Time
	Log             *slog.Logger
}

var _ usecase.IPaymentUseCase = (*Service)(nil)

func New(
	orderRepo repository.IOrderRepo,
	paymentProvider paymentPort.IPaymentProvider,
	paidHandler PaidOrderHandler,
	alerterService service.IAlerterService,
	log *slog.Logger,
) *Service {
	return &Service{
		OrderRepo:       orderRepo,
		PaymentProvider: paymentProvider,
		PaidHandler:     paidHandler,
		AlerterService:  alerterService,
		Now:             func() time.Time { return time.Now().UTC() },
		Log:             log,
	}
}

// ConfirmPayment обрабатывает уведомление кассы.
// Переход pending -> paid под блокировкой реестра и есть защита от повторов:
// повторное уведомление по оплаченному заказу не вызывает PaidHandler.
func (s *Service) ConfirmPayment(ctx context.Context, n domain.PaymentNotification) (domain.PaymentOutcome, error) {
	if s.PaymentProvider.Mode() != domain.PaymentModeWebhook {
		return domain.PaymentNotApplicable, nil
	}

	if err := s.PaymentProvider.VerifyNotification(n); err != nil {
		s.Log.Warn("payment notification rejected",
			"error", err,
			"order_id", n.OrderID,
			"merchant_id", n.MerchantID,
			"amount", n.Amount,
		)
		s.sendAlert(ctx, fmt.Sprintf("Отклонено уведомление об оплате с неверной подписью: order_id=%s amount=%s", n.OrderID, n.Amount))
		return "", fmt.Errorf("order %s: %w", n.OrderID, domain.ErrInvalidSignature)
	}

	amount, err := n.AmountDecimal()
	if err != nil {
		s.Log.Error("payment notification with malformed amount",
			"error", err,
			"order_id", n.OrderID,
		)
		return "", err
	}

	order, err := s.OrderRepo.Get(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.Log.Warn("payment notification for unknown order", "order_id", n.OrderID)
			return domain.PaymentUnknownOrder, nil
		}
		s.Log.Error("failed to get order",
			"error", err,
			"order_id", n.OrderID,
		)
		return "", fmt.Errorf("failed to get order: %w", err)
	}

	if amount.LessThan(order.Cost) {
		s.Log.Warn("payment notification underpaid",
			"order_id", order.ID,
			"amount", amount.String(),
			"cost", order.Cost.String(),
		)
		s.sendAlert(ctx, fmt.Sprintf("Недоплата по заказу %s: получено %s, нужно %s", order.ID, amount.StringFixed(2), order.Cost.StringFixed(2)))
		return domain.PaymentUnderpaid, nil
	}

	now := s.Now().UTC()
	updated, err := s.OrderRepo.Update(ctx, n.OrderID, func(o *domain.Order) error {
		return o.MarkPaid(now)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			// пользователь успел отменить заказ
			s.Log.Warn("paid order disappeared before confirmation", "order_id", n.OrderID)
			s.sendAlert(ctx, fmt.Sprintf("Оплата по удалённому заказу %s, сумма %s", n.OrderID, n.Amount))
			return domain.PaymentUnknownOrder, nil
		case errors.Is(err, domain.ErrInvalidTransition):
			if updated != nil && updated.Status == domain.OrderStatusCancelled {
				s.Log.Warn("payment notification for cancelled order", "order_id", n.OrderID)
				s.sendAlert(ctx, fmt.Sprintf("Оплата по отменённому заказу %s, сумма %s", n.OrderID, n.Amount))
			} else {
				s.Log.Info("payment notification replay ignored", "order_id", n.OrderID)
			}
			return domain.PaymentAlreadyPaid, nil
		default:
			s.Log.Error("failed to mark order paid",
				"error", err,
				"order_id", n.OrderID,
			)
			return "", fmt.Errorf("failed to mark order paid: %w", err)
		}
	}

	s.Log.Info("order paid",
		"order_id", updated.ID,
		"user_id", updated.UserID,
		"amount", amount.String(),
	)

	if s.PaidHandler != nil {
		s.PaidHandler.OnOrderPaid(ctx, updated)
	}
	return domain.PaymentAccepted, nil
}

func (s *Service) sendAlert(ctx context.Context, message string) {
	if s.AlerterService == nil {
		return
	}
	if err := s.AlerterService.SendAlert(ctx, message); err != nil {
		s.Log.Warn("failed to send alert", "error", err)
	}
}
