package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// toDomainUpdate нас интересуют только сообщения и нажатия inline кнопок
func toDomainUpdate(u tgbotapi.Update) *domain.Update {
	return &domain.Update{
		UpdateID:      int64(u.UpdateID),
		Message:       toDomainMessage(u.Message),
		CallbackQuery: toDomainCallback(u.CallbackQuery),
	}
}

func toDomainMessage(m *tgbotapi.Message) *domain.Message {
	if m == nil {
		return nil
	}

	msg := &domain.Message{
		MessageID: int64(m.MessageID),
		From:      toDomainUser(m.From),
		Date:      int64(m.Date),
	}
	if m.Chat != nil {
		msg.Chat = &domain.Chat{ID: m.Chat.ID, Type: m.Chat.Type}
	}
	if m.Text != "" {
		text := m.Text
		msg.Text = &text
	}
	return msg
}

func toDomainCallback(q *tgbotapi.CallbackQuery) *domain.CallbackQuery {
	if q == nil {
		return nil
	}

	cb := &domain.CallbackQuery{
		ID:      q.ID,
		From:    toDomainUser(q.From),
		Message: toDomainMessage(q.Message),
	}
	if q.Data != "" {
		data := q.Data
		cb.Data = &data
	}
	return cb
}

func toDomainUser(u *tgbotapi.User) *domain.TelegramUser {
	if u == nil {
		return nil
	}

	user := &domain.TelegramUser{
		ID:        u.ID,
		IsBot:     u.IsBot,
		FirstName: u.FirstName,
	}
	if u.LastName != "" {
		lastName := u.LastName
		user.LastName = &lastName
	}
	if u.UserName != "" {
		username := u.UserName
		user.Username = &username
	}
	return user
}
