package inmemory

import (
	"context"
	"sync"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/cache"
)

// ConversationStore состояние диалогов в памяти, ключ - Telegram user id
type ConversationStore struct {
	mu    sync.RWMutex
	state map[int64]domain.Conversation
}

func NewConversationStore() cache.IConversationStore {
	return &ConversationStore{
		state: make(map[int64]domain.Conversation),
	}
}

func (s *ConversationStore) Get(_ context.Context, userID int64) (domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.state[userID]
	if !ok {
		return domain.IdleConversation(), nil
	}
	return conv, nil
}

func (s *ConversationStore) Set(_ context.Context, userID int64, conv domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv.IsIdle() {
		delete(s.state, userID)
		return nil
	}
	s.state[userID] = conv
	return nil
}

func (s *ConversationStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.state, userID)
	return nil
}
