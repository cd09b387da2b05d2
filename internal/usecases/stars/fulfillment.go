package stars

import (
	"context"
	"errors"
	"fmt"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/usecases/stars/texts"
)

// requireAdmin чужой вызов получает отказ, состояние не меняется
func (s *Service) requireAdmin(ctx context.Context, callerID int64, action string) error {
	if s.isAdmin(callerID) {
		return nil
	}

	s.Log.Warn("admin action denied",
		"caller_id", callerID,
		"action", action,
	)
	_ = s.sendMessage(ctx, callerID, texts.AccessDenied)
	return domain.WrapBusinessError(domain.ErrAccessDenied)
}

// applyAdminTransition общая часть подтверждения, выполнения и отмены.
// Неизвестный заказ и недопустимый переход безвредны: админ видит "не найден".
func (s *Service) applyAdminTransition(ctx context.Context, callerID int64, action string, orderID string, fn func(*domain.Order) error) (*domain.Order, error) {
	if err := s.requireAdmin(ctx, callerID, action); err != nil {
		return nil, err
	}

	order, err := s.OrderRepo.Update(ctx, orderID, fn)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			s.Log.Info("admin action skipped",
				"action", action,
				"order_id", orderID,
				"reason", err.Error(),
			)
			_ = s.sendMessage(ctx, callerID, texts.OrderNotFound)
			return nil, domain.WrapBusinessError(err)
		}
		s.Log.Error("failed to update order",
			"error", err,
			"action", action,
			"order_id", orderID,
		)
		_ = s.sendMessage(ctx, callerID, texts.ErrorGeneric)
		return nil, fmt.Errorf("failed to %s order: %w", action, err)
	}

	s.Log.Info("admin action applied",
		"action", action,
		"order_id", order.ID,
		"status", order.Status,
	)
	return order, nil
}

// ConfirmPaymentByAdmin ручной режим: админ увидел перевод, pending -> paid
func (s *Service) ConfirmPaymentByAdmin(ctx context.Context, callerID int64, orderID string) error {
	now := s.now()
	order, err := s.applyAdminTransition(ctx, callerID, "confirm", orderID, func(o *domain.Order) error {
		return o.MarkPaid(now)
	})
	if err != nil {
		return err
	}

	s.OnOrderPaid(ctx, order)
	return nil
}

// CompleteOrder paid -> completed, покупатель получает уведомление
func (s *Service) CompleteOrder(ctx context.Context, callerID int64, orderID string) error {
	now := s.now()
	order, err := s.applyAdminTransition(ctx, callerID, "complete", orderID, func(o *domain.Order) error {
		return o.Complete(now)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, order.UserID, texts.FormatOrderCompleted(order), nil)
	s.publishEvent(ctx, domain.OrderEventCompleted, order)
	s.notify(ctx, callerID, texts.FormatAdminDone(texts.ButtonComplete, order), nil)
	return nil
}

// CancelOrder pending|paid -> cancelled. Заказ остаётся в реестре, поэтому повторный вебхук его не оживит.
func (s *Service) CancelOrder(ctx context.Context, callerID int64, orderID string) error {
	order, err := s.applyAdminTransition(ctx, callerID, "cancel", orderID, func(o *domain.Order) error {
		return o.Cancel()
	})
	if err != nil {
		return err
	}

	s.resetConversationFor(ctx, order)
	s.notify(ctx, order.UserID, texts.FormatOrderCancelled(order), mainKeyboard())
	s.publishEvent(ctx, domain.OrderEventCancelled, order)
	s.notify(ctx, callerID, texts.FormatAdminDone(texts.ButtonCancelOrder, order), nil)
	return nil
}

// OnOrderPaid вызывается ровно один раз на переход в paid: из вебхука кассы или из подтверждения админа
func (s *Service) OnOrderPaid(ctx context.Context, order *domain.Order) {
	s.notifyAdmin(ctx, texts.FormatAdminOrder(texts.AdminOrderPaid, order), adminFulfillmentKeyboard(order.ID))
	s.notify(ctx, order.UserID, texts.FormatOrderPaid(order), mainKeyboard())

	if s.Cfg.Pricing.IncludesSubscription() {
		s.extendSubscriptionFor(ctx, order)
	}

	s.resetConversationFor(ctx, order)
	s.publishEvent(ctx, domain.OrderEventPaid, order)
}

func (s *Service) extendSubscriptionFor(ctx context.Context, order *domain.Order) {
	account, err := s.AccountRepo.ExtendSubscription(ctx, order.UserID, s.Cfg.SubscriptionDays, s.now())
	if err != nil {
		s.Log.Error("failed to extend subscription",
			"error", err,
			"user_id", order.UserID,
			"order_id", order.ID,
		)
		s.sendAlert(ctx, fmt.Sprintf("Не удалось продлить подписку user_id=%d после оплаты заказа %s: %v", order.UserID, order.ID, err))
		return
	}

	s.notify(ctx, order.UserID, texts.FormatSubscriptionExtended(*account.SubscriptionUntil), nil)
}

// resetConversationFor диалог сбрасывается, только если он всё ещё про этот заказ
func (s *Service) resetConversationFor(ctx context.Context, order *domain.Order) {
	conv, err := s.Conversations.Get(ctx, order.UserID)
	if err != nil {
		s.Log.Warn("failed to get conversation",
			"error", err,
			"user_id", order.UserID,
		)
		return
	}
	if conv.OrderID != order.ID {
		return
	}
	if err := s.Conversations.Clear(ctx, order.UserID); err != nil {
		s.Log.Warn("failed to clear conversation",
			"error", err,
			"user_id", order.UserID,
		)
	}
}
