package texts

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// Кнопки основной клавиатуры
const (
	ButtonForSelf   = "⭐ Для себя"
	ButtonForFriend = "🎁 Для друга"
)

// Кнопки под сообщениями
const (
	ButtonPay         = "💳 Оплатить"
	ButtonReportPaid  = "✅ Я оплатил"
	ButtonCancelFlow  = "❌ Отменить"
	ButtonConfirmPaid = "💰 Оплата получена"
	ButtonComplete    = "✅ Выполнен"
	ButtonCancelOrder = "❌ Отменить"
)

const (
	Start = `Привет! Я помогу купить Telegram Stars ⭐

Выберите, кому покупаем звёзды, кнопкой ниже.
Команды: /subscription /ref /cancel /help`

	Help = `⭐ Для себя - звёзды придут на ваш аккаунт
🎁 Для друга - укажите username получателя

/subscription - статус подписки
/ref - реферальная ссылка
/cancel - отменить текущий заказ`

	ChooseTarget = "Выберите, кому покупаем звёзды 👇"

	UsernameRequired = `У вас не установлен username в Telegram.
Установите его в настройках и нажмите кнопку ещё раз.`

	FlowCancelled       = "Заказ отменён."
	NothingToCancel     = "Нечего отменять."
	AccessDenied        = "⛔ Доступ запрещён"
	OrderNotFound       = "Заказ не найден или уже обработан"
	PaymentReportSent   = "Спасибо! Администратор проверит оплату и подтвердит заказ."
	PaymentReportManual = "Оплата подтверждается автоматически, подождите немного."

	InvalidFormatSelf   = "Отправьте только количество звёзд, например: 100"
	InvalidFormatFriend = "Неверный формат. Отправьте: username количество\nНапример: durov 100"
	QuantityNotInteger  = "Количество звёзд должно быть целым числом."
	InvalidHandle       = "Некорректный username получателя. Он должен начинаться с буквы и содержать от 5 до 32 символов (буквы, цифры, _)."

	ErrorGeneric = "Что-то пошло не так, попробуйте позже."

	ExportEmpty = "Заказов для выгрузки нет."
)

func FormatUnknownCommand(command string) string {
	return fmt.Sprintf("Неизвестная команда /%s. Список команд: /help", command)
}

func FormatAskQuantity(limits domain.QuantityLimits) string {
	return fmt.Sprintf("Сколько звёзд купить? Введите число от %d до %d.", limits.Min, limits.Max)
}

func FormatAskRecipient(limits domain.QuantityLimits) string {
	return fmt.Sprintf("Отправьте username получателя и количество звёзд (от %d до %d).\nНапример: durov 100", limits.Min, limits.Max)
}

func FormatQuantityOutOfRange(limits domain.QuantityLimits) string {
	return fmt.Sprintf("Количество звёзд должно быть от %d до %d.", limits.Min, limits.Max)
}

// FormatPaymentInstruction текст с суммой и способом оплаты
func FormatPaymentInstruction(order *domain.Order, instr domain.PaymentInstruction, bundled bool) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Вы отправляете %d ⭐ пользователю @%s\n", order.StarsCount, order.Recipient))
	b.WriteString(fmt.Sprintf("Сумма к оплате: %s руб\n", FormatMoney(order.Cost)))
	if bundled {
		b.WriteString("В сумму входит подписка на бота.\n")
	}
	if instr.CardNumber != "" {
		b.WriteString(fmt.Sprintf("Номер карты: %s\n", instr.CardNumber))
		b.WriteString("\nПосле перевода нажмите «✅ Я оплатил».")
	} else {
		b.WriteString("\nНажмите «💳 Оплатить», заказ подтвердится автоматически.")
	}
	b.WriteString(fmt.Sprintf("\nЗаказ: %s", order.ID))
	return b.String()
}

// FormatAdminOrder карточка заказа для админа
func FormatAdminOrder(title string, order *domain.Order) string {
	return fmt.Sprintf("%s\n\nЗаказ: %s\nПокупатель: %s (id %d)\nПолучатель: @%s\nЗвёзд: %d\nСумма: %s руб\nСтатус: %s",
		title,
		order.ID,
		formatHandle(order.Username),
		order.UserID,
		order.Recipient,
		order.StarsCount,
		FormatMoney(order.Cost),
		order.Status,
	)
}

const (
	AdminNewPaymentReport = "🔔 Пользователь сообщил об оплате"
	AdminOrderPaid        = "💰 Заказ оплачен"
)

func FormatOrderPaid(order *domain.Order) string {
	return fmt.Sprintf("✅ Оплата заказа %s получена. Звёзды скоро придут на @%s.", order.ID, order.Recipient)
}

func FormatOrderCompleted(order *domain.Order) string {
	return fmt.Sprintf("🎉 Заказ %s выполнен: %d ⭐ отправлены @%s.", order.ID, order.StarsCount, order.Recipient)
}

func FormatOrderCancelled(order *domain.Order) string {
	return fmt.Sprintf("❌ Заказ %s отменён. Если вы уже оплатили, напишите администратору.", order.ID)
}

func FormatAdminDone(action string, order *domain.Order) string {
	return fmt.Sprintf("%s: заказ %s (%s)", action, order.ID, order.Status)
}

// FormatSubscriptionActive статус действующей подписки
func FormatSubscriptionActive(until time.Time) string {
	return fmt.Sprintf("✅ Подписка активна до %s (UTC)", until.UTC().Format(domain.TimestampLayout))
}

func FormatSubscriptionExpired(instr domain.PaymentInstruction) string {
	msg := "Ваша подписка истекла. Оплатите снова подписку, чтобы продолжить."
	if instr.CardNumber != "" {
		msg += "\nНомер карты для оплаты: " + instr.CardNumber
	} else {
		msg += "\nОформите новый заказ кнопкой ниже, подписка продлится после оплаты."
	}
	return msg
}

func FormatSubscriptionExtended(until time.Time) string {
	return fmt.Sprintf("Подписка продлена до %s (UTC)", until.UTC().Format(domain.TimestampLayout))
}

func FormatExpiryReminder(until time.Time) string {
	return fmt.Sprintf("⏰ Ваша подписка заканчивается %s (UTC). Продлите её, чтобы продолжить покупки.", until.UTC().Format(domain.TimestampLayout))
}

func FormatReferralLink(botUsername string, userID int64) string {
	return fmt.Sprintf("Ваша реферальная ссылка:\nhttps://t.me/%s?start=%d", botUsername, userID)
}

// FormatOrdersList активные заказы для админа
func FormatOrdersList(orders []*domain.Order) string {
	if len(orders) == 0 {
		return "Активных заказов нет."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Активные заказы (%d):\n", len(orders)))
	for _, o := range orders {
		b.WriteString(fmt.Sprintf("\n%s | @%s | %d ⭐ | %s руб | %s", o.ID, o.Recipient, o.StarsCount, FormatMoney(o.Cost), o.Status))
	}
	return b.String()
}

func FormatStats(stats domain.OrderStats) string {
	return fmt.Sprintf("📊 Статистика\n\nВсего заказов: %d\nОжидают оплаты: %d\nОплачены: %d\nВыполнены: %d\nОтменены: %d\nВыручка: %s руб",
		stats.Total,
		stats.Pending,
		stats.Paid,
		stats.Completed,
		stats.Cancelled,
		FormatMoney(stats.Revenue),
	)
}

func FormatExportReady(url string, count int) string {
	return fmt.Sprintf("📄 Выгрузка заказов (%d шт.) готова:\n%s", count, url)
}

func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatHandle(username string) string {
	if username == "" {
		return "без username"
	}
	return "@" + username
}
