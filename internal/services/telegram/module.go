package telegram

import (
	"context"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/service"
)

// Client то, что сервису нужно от адаптера Bot API
type Client interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) error
	AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error
}

type Service struct {
	BotService service.IBotService
	Client     Client
	Log        *slog.Logger
}

var _ service.ITelegramService = (*Service)(nil)

func New(client Client, log *slog.Logger) *Service {
	return &Service{
		Client: client,
		Log:    log,
	}
}

// SetBotService use case создаётся после сервиса, потому что сам отправляет через него сообщения
func (s *Service) SetBotService(botService service.IBotService) {
	s.BotService = botService
}
