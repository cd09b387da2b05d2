package alerter

import (
	"context"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/ports/service"
)

// Sender клиент, который умеет доставить алерт
type Sender interface {
	SendAlert(ctx context.Context, message string) error
}

// Service реализует IAlerterService. Без клиента алерты только пишутся в лог.
type Service struct {
	client Sender
	log    *slog.Logger
}

// New создаёт новый сервис для отправки алертов
func New(client Sender, log *slog.Logger) service.IAlerterService {
	return &Service{
		client: client,
		log:    log,
	}
}

// SendAlert отправляет алерт
func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.client == nil {
		s.log.Warn("alert (alerter disabled)", "message", message)
		return nil
	}

	return s.client.SendAlert(ctx, message)
}
