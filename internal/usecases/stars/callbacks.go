package stars

import (
	"context"
	"errors"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/usecases/stars/texts"
)

// HandleCallback нажатия inline кнопок пользователя и админа
func (s *Service) HandleCallback(ctx context.Context, account *domain.Account, query *domain.CallbackQuery) error {
	if query == nil || query.Data == nil {
		return nil
	}

	chatID := account.UserID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}

	action, orderID := parseCallbackData(*query.Data)

	var err error
	switch action {
	case callbackCancelFlow:
		s.answerCallback(ctx, query.ID, "", false)
		return s.CancelFlow(ctx, account, chatID)
	case callbackReportPaid:
		err = s.ReportPayment(ctx, account, chatID, orderID)
	case callbackConfirmPaid:
		err = s.ConfirmPaymentByAdmin(ctx, account.UserID, orderID)
	case callbackCompleteOrder:
		err = s.CompleteOrder(ctx, account.UserID, orderID)
	case callbackCancelOrder:
		err = s.CancelOrder(ctx, account.UserID, orderID)
	default:
		s.Log.Warn("unknown callback data",
			"data", *query.Data,
			"user_id", account.UserID,
		)
		s.answerCallback(ctx, query.ID, "", false)
		return nil
	}

	s.answerCallback(ctx, query.ID, callbackAnswer(err), err != nil)
	return err
}

func callbackAnswer(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrAccessDenied):
		return texts.AccessDenied
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrInvalidTransition):
		return texts.OrderNotFound
	default:
		return texts.ErrorGeneric
	}
}

// ReportPayment ручной режим: пользователь сообщил о переводе, админ получает карточку с кнопками
func (s *Service) ReportPayment(ctx context.Context, account *domain.Account, chatID int64, orderID string) error {
	if s.PaymentProvider.Mode() != domain.PaymentModeManual {
		return s.sendMessage(ctx, chatID, texts.PaymentReportManual)
	}

	order, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
		s.Log.Error("failed to get order",
			"error", err,
			"order_id", orderID,
		)
		return err
	}
	if order == nil || order.UserID != account.UserID || order.Status != domain.OrderStatusPending {
		_ = s.sendMessage(ctx, chatID, texts.OrderNotFound)
		return domain.WrapBusinessError(domain.ErrOrderNotFound)
	}

	conv, err := s.Conversations.Get(ctx, account.UserID)
	if err != nil {
		s.Log.Warn("failed to get conversation",
			"error", err,
			"user_id", account.UserID,
		)
	}
	if conv.OrderID == order.ID && conv.PaymentReported {
		s.Log.Debug("payment already reported", "order_id", order.ID)
		return s.sendMessage(ctx, chatID, texts.PaymentReportSent)
	}

	s.Log.Info("user reported payment",
		"order_id", order.ID,
		"user_id", account.UserID,
	)
	s.notifyAdmin(ctx, texts.FormatAdminOrder(texts.AdminNewPaymentReport, order), adminReportKeyboard(order.ID))

	if conv.OrderID == order.ID {
		if err := s.Conversations.Set(ctx, account.UserID, conv.WithPaymentReported()); err != nil {
			s.Log.Warn("failed to save conversation",
				"error", err,
				"user_id", account.UserID,
				"order_id", order.ID,
			)
		}
	}

	return s.replyCommitted(ctx, chatID, texts.PaymentReportSent, nil)
}
