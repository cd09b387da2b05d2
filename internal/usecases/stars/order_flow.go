package stars

import (
	"context"
	"errors"
	"fmt"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/usecases/stars/texts"
)

// StartFlow idle -> awaiting_input. Без username диалог не двигается.
func (s *Service) StartFlow(ctx context.Context, account *domain.Account, chatID int64, forSelf bool) error {
	if !account.HasUsername() {
		if err := s.sendMessage(ctx, chatID, texts.UsernameRequired); err != nil {
			return err
		}
		return domain.WrapBusinessError(domain.ErrUsernameRequired)
	}

	if err := s.Conversations.Set(ctx, account.UserID, domain.AwaitingInput(forSelf)); err != nil {
		s.Log.Error("failed to save conversation",
			"error", err,
			"user_id", account.UserID,
		)
		_ = s.sendMessage(ctx, chatID, texts.ErrorGeneric)
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	prompt := texts.FormatAskRecipient(s.Cfg.Limits)
	if forSelf {
		prompt = texts.FormatAskQuantity(s.Cfg.Limits)
	}
	return s.sendMessageWithKeyboard(ctx, chatID, prompt, cancelFlowKeyboard())
}

// HandleOrderInput разбирает ввод, создаёт pending заказ и показывает способ оплаты.
// Ошибка разбора не меняет состояние диалога.
func (s *Service) HandleOrderInput(ctx context.Context, account *domain.Account, chatID int64, conv domain.Conversation, text string) error {
	input, err := domain.ParseOrderInput(text, conv.ForSelf, account.Username, s.Cfg.Limits)
	if err != nil {
		s.Log.Debug("order input rejected",
			"error", err,
			"user_id", account.UserID,
		)
		if sendErr := s.sendMessage(ctx, chatID, s.inputErrorText(err, conv.ForSelf)); sendErr != nil {
			return sendErr
		}
		return domain.WrapBusinessError(err)
	}

	now := s.now()
	cost := s.Cfg.Pricing.Price(input.Quantity)
	order := domain.NewOrder(account, input, cost, now)

	if err := s.OrderRepo.Create(ctx, order); err != nil {
		s.Log.Error("failed to create order",
			"error", err,
			"user_id", account.UserID,
			"order_id", order.ID,
		)
		_ = s.sendMessage(ctx, chatID, texts.ErrorGeneric)
		return fmt.Errorf("failed to create order: %w", err)
	}

	instr, err := s.PaymentProvider.Instruction(ctx, order)
	if err != nil {
		s.Log.Error("failed to build payment instruction",
			"error", err,
			"order_id", order.ID,
		)
		if _, delErr := s.OrderRepo.DeletePending(ctx, order.ID); delErr != nil {
			s.Log.Warn("failed to delete order without payment instruction",
				"error", delErr,
				"order_id", order.ID,
			)
		}
		_ = s.sendMessage(ctx, chatID, texts.ErrorGeneric)
		return fmt.Errorf("failed to build payment instruction: %w", err)
	}

	// предыдущий pending заказ остаётся в реестре: по его ссылке могли уже заплатить
	if err := s.Conversations.Set(ctx, account.UserID, domain.AwaitingPayment(conv.ForSelf, order.ID)); err != nil {
		s.Log.Warn("failed to save conversation",
			"error", err,
			"user_id", account.UserID,
			"order_id", order.ID,
		)
	}

	s.Log.Info("order created",
		"order_id", order.ID,
		"user_id", account.UserID,
		"recipient", order.Recipient,
		"stars_count", order.StarsCount,
		"cost", order.Cost.String(),
	)
	s.publishEvent(ctx, domain.OrderEventCreated, order)

	text = texts.FormatPaymentInstruction(order, instr, s.Cfg.Pricing.IncludesSubscription())
	return s.replyCommitted(ctx, chatID, text, paymentKeyboard(order, instr))
}

// CancelFlow любое состояние -> idle, связанный заказ удаляется, если он ещё pending
func (s *Service) CancelFlow(ctx context.Context, account *domain.Account, chatID int64) error {
	conv, err := s.Conversations.Get(ctx, account.UserID)
	if err != nil {
		s.Log.Error("failed to get conversation",
			"error", err,
			"user_id", account.UserID,
		)
		_ = s.sendMessage(ctx, chatID, texts.ErrorGeneric)
		return fmt.Errorf("failed to get conversation: %w", err)
	}

	if conv.IsIdle() {
		return s.sendMessageWithKeyboard(ctx, chatID, texts.NothingToCancel, mainKeyboard())
	}

	if conv.OrderID != "" {
		s.dropPendingOrder(ctx, conv.OrderID)
	}

	if err := s.Conversations.Clear(ctx, account.UserID); err != nil {
		s.Log.Error("failed to clear conversation",
			"error", err,
			"user_id", account.UserID,
		)
		return fmt.Errorf("failed to clear conversation: %w", err)
	}

	return s.replyCommitted(ctx, chatID, texts.FlowCancelled, mainKeyboard())
}

func (s *Service) dropPendingOrder(ctx context.Context, orderID string) {
	order, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			s.Log.Warn("failed to get order for cancel", "error", err, "order_id", orderID)
		}
		return
	}

	deleted, err := s.OrderRepo.DeletePending(ctx, orderID)
	if err != nil {
		s.Log.Warn("failed to delete pending order", "error", err, "order_id", orderID)
		return
	}
	if !deleted {
		// уже оплачен, отменить его может только админ
		return
	}

	s.Log.Info("pending order deleted by user", "order_id", orderID, "user_id", order.UserID)
	order.Status = domain.OrderStatusCancelled
	s.publishEvent(ctx, domain.OrderEventCancelled, order)
}

func (s *Service) inputErrorText(err error, forSelf bool) string {
	switch {
	case errors.Is(err, domain.ErrQuantityOutOfRange):
		return texts.FormatQuantityOutOfRange(s.Cfg.Limits)
	case errors.Is(err, domain.ErrQuantityNotInteger):
		return texts.QuantityNotInteger
	case errors.Is(err, domain.ErrInvalidHandle):
		return texts.InvalidHandle
	case forSelf:
		return texts.InvalidFormatSelf
	default:
		return texts.InvalidFormatFriend
	}
}
