package domain

// дока - https://core.telegram.org/bots/api

// Update - входящее обновление от Telegram Bot API
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// CallbackQuery - нажатие inline кнопки
type CallbackQuery struct {
	ID      string        `json:"id"`
	From    *TelegramUser `json:"from,omitempty"`
	Message *Message      `json:"message,omitempty"`
	Data    *string       `json:"data,omitempty"`
}

// Message - сообщение от Telegram Bot API
type Message struct {
	MessageID int64         `json:"message_id"`
	From      *TelegramUser `json:"from,omitempty"`
	Chat      *Chat         `json:"chat"`
	Date      int64         `json:"date"`
	Text      *string       `json:"text,omitempty"`
}

// TelegramUser - пользователь Telegram (не domain.Account)
type TelegramUser struct {
	ID        int64   `json:"id"`
	IsBot     bool    `json:"is_bot"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
	Username  *string `json:"username,omitempty"`
}

// Chat - чат в Telegram
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"` // "private", "group", "supergroup", "channel"
}

// InlineButton кнопка inline клавиатуры: либо callback data, либо url
type InlineButton struct {
	Text         string
	CallbackData string
	URL          string
}

// InlineKeyboard строки inline кнопок
type InlineKeyboard [][]InlineButton

// ReplyKeyboard строки кнопок основной клавиатуры
type ReplyKeyboard [][]string

// Keyboard разметка под сообщением, заполняется одно из полей
type Keyboard struct {
	Inline InlineKeyboard
	Reply  ReplyKeyboard
}

func InlineMarkup(rows ...[]InlineButton) *Keyboard {
	return &Keyboard{Inline: rows}
}

func ReplyMarkup(rows ...[]string) *Keyboard {
	return &Keyboard{Reply: rows}
}
