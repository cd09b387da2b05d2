package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/cache"
)

const conversationKeyPrefix = "stars_bot:conversation:"

// ConversationStore состояние диалогов в Redis, переживает рестарт бота.
// Ключи пишутся без срока жизни: диалог завершает только сам пользователь.
type ConversationStore struct {
	cache cache.Cache
}

func NewConversationStore(c cache.Cache) cache.IConversationStore {
	return &ConversationStore{
		cache: c,
	}
}

func conversationKey(userID int64) string {
	return fmt.Sprintf("%s%d", conversationKeyPrefix, userID)
}

func (s *ConversationStore) Get(ctx context.Context, userID int64) (domain.Conversation, error) {
	raw, err := s.cache.Get(ctx, conversationKey(userID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return domain.IdleConversation(), nil
	}
	if err != nil {
		return domain.IdleConversation(), fmt.Errorf("failed to get conversation: %w", err)
	}

	var conv domain.Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return domain.IdleConversation(), fmt.Errorf("failed to decode conversation: %w", err)
	}
	return conv, nil
}

func (s *ConversationStore) Set(ctx context.Context, userID int64, conv domain.Conversation) error {
	if conv.IsIdle() {
		return s.Clear(ctx, userID)
	}

	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := s.cache.Set(ctx, conversationKey(userID), string(raw), 0); err != nil {
		return fmt.Errorf("failed to set conversation: %w", err)
	}
	return nil
}

func (s *ConversationStore) Clear(ctx context.Context, userID int64) error {
	if err := s.cache.Delete(ctx, conversationKey(userID)); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}
