package telegram

import (
	"context"

	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

// UpdateHandler функция для обработки обновлений от Telegram
type UpdateHandler func(ctx context.Context, update *domain.Update) error

// Poller long polling для локальной разработки
type Poller struct {
	client  *Client
	timeout int
	handler UpdateHandler
	log     *slog.Logger
}

func NewPoller(client *Client, config *Config, handler UpdateHandler, log *slog.Logger) *Poller {
	timeout := config.PollingTimeout
	if timeout <= 0 {
		timeout = 30
	}

	return &Poller{
		client:  client,
		timeout: timeout,
		handler: handler,
		log:     log,
	}
}

// DeleteWebhook getUpdates не работает при активном webhook
func (p *Poller) DeleteWebhook(ctx context.Context) error {
	return p.client.DeleteWebhook(ctx)
}

// Start блокирует до отмены ctx. Ошибка обработки одного апдейта не останавливает polling.
func (p *Poller) Start(ctx context.Context) error {
	p.log.Info("starting telegram polling", "timeout", p.timeout)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeout
	cfg.AllowedUpdates = []string{"message", "callback_query"}

	updates := p.client.bot.GetUpdatesChan(cfg)
	defer p.client.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("polling stopped")
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}

			update := toDomainUpdate(u)
			if err := p.handler(ctx, update); err != nil && !domain.IsBusinessError(err) {
				p.log.Error("failed to handle update",
					"error", err,
					"update_id", update.UpdateID,
				)
			}
		}
	}
}
