package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// toReplyMarkup переводит доменную клавиатуру в разметку Bot API, nil если клавиатуры нет
func toReplyMarkup(keyboard *domain.Keyboard) interface{} {
	if keyboard == nil {
		return nil
	}

	if len(keyboard.Inline) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard.Inline))
		for _, row := range keyboard.Inline {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				if b.URL != "" {
					buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
					continue
				}
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.CallbackData))
			}
			rows = append(rows, buttons)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	if len(keyboard.Reply) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(keyboard.Reply))
		for _, row := range keyboard.Reply {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, text := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(text))
			}
			rows = append(rows, buttons)
		}
		markup := tgbotapi.NewReplyKeyboard(rows...)
		markup.ResizeKeyboard = true
		return markup
	}

	return nil
}
