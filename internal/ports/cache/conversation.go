package cache

import (
	"context"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// IConversationStore состояние диалога покупки по Telegram user id
type IConversationStore interface {
	// Get для неизвестного пользователя возвращает idle
	Get(ctx context.Context, userID int64) (domain.Conversation, error)
	Set(ctx context.Context, userID int64, conv domain.Conversation) error
	Clear(ctx context.Context, userID int64) error
}
