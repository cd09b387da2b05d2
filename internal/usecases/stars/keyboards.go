package stars

import (
	"strings"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/usecases/stars/texts"
)

// callback data inline кнопок: <action>:<order_id>
const (
	callbackCancelFlow    = "cancel_flow"
	callbackReportPaid    = "paid"
	callbackConfirmPaid   = "confirm"
	callbackCompleteOrder = "complete"
	callbackCancelOrder   = "cancel"
)

func callbackData(action, orderID string) string {
	return action + ":" + orderID
}

// parseCallbackData "complete:42_1700000000000" -> ("complete", "42_1700000000000")
func parseCallbackData(data string) (action string, orderID string) {
	action, orderID, _ = strings.Cut(data, ":")
	return action, orderID
}

func mainKeyboard() *domain.Keyboard {
	return domain.ReplyMarkup([]string{texts.ButtonForSelf, texts.ButtonForFriend})
}

func cancelFlowKeyboard() *domain.Keyboard {
	return domain.InlineMarkup([]domain.InlineButton{
		{Text: texts.ButtonCancelFlow, CallbackData: callbackCancelFlow},
	})
}

// paymentKeyboard ссылка на кассу или кнопка "Я оплатил" для перевода на карту
func paymentKeyboard(order *domain.Order, instr domain.PaymentInstruction) *domain.Keyboard {
	var first domain.InlineButton
	if instr.URL != "" {
		first = domain.InlineButton{Text: texts.ButtonPay, URL: instr.URL}
	} else {
		first = domain.InlineButton{Text: texts.ButtonReportPaid, CallbackData: callbackData(callbackReportPaid, order.ID)}
	}

	return domain.InlineMarkup(
		[]domain.InlineButton{first},
		[]domain.InlineButton{{Text: texts.ButtonCancelFlow, CallbackData: callbackCancelFlow}},
	)
}

// adminReportKeyboard заказ ещё pending, админ сверяет перевод
func adminReportKeyboard(orderID string) *domain.Keyboard {
	return domain.InlineMarkup(
		[]domain.InlineButton{{Text: texts.ButtonConfirmPaid, CallbackData: callbackData(callbackConfirmPaid, orderID)}},
		[]domain.InlineButton{{Text: texts.ButtonCancelOrder, CallbackData: callbackData(callbackCancelOrder, orderID)}},
	)
}

// adminFulfillmentKeyboard заказ оплачен, осталось отправить звёзды
func adminFulfillmentKeyboard(orderID string) *domain.Keyboard {
	return domain.InlineMarkup([]domain.InlineButton{
		{Text: texts.ButtonComplete, CallbackData: callbackData(callbackCompleteOrder, orderID)},
		{Text: texts.ButtonCancelOrder, CallbackData: callbackData(callbackCancelOrder, orderID)},
	})
}
