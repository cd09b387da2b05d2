package alerter

type Config struct {
	// BotToken отдельный бот для алертов, пусто - алерты шлёт основной бот
	BotToken        string `envconfig:"BOT_TOKEN"`
	ChatID          int64  `envconfig:"CHAT_ID"`
	MessageThreadID *int64 `envconfig:"MESSAGE_THREAD_ID"`
	// WebhookToken ?token= для входящих /webhooks/*, пусто - без проверки
	WebhookToken string `envconfig:"WEBHOOK_TOKEN"`
}

func (c *Config) IsEnabled() bool {
	return c != nil && c.ChatID != 0
}
