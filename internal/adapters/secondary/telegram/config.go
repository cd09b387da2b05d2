package telegram

type Config struct {
	BotToken       string `envconfig:"BOT_TOKEN" required:"true"`
	UseWebhook     string `envconfig:"USE_WEBHOOK"` // Railway требует строки
	WebhookURL     string `envconfig:"WEBHOOK_URL"`
	WebhookSecret  string `envconfig:"WEBHOOK_SECRET"` // X-Telegram-Bot-Api-Secret-Token
	PollingTimeout int    `envconfig:"POLLING_TIMEOUT" default:"30"`
	Debug          bool   `envconfig:"DEBUG" default:"false"`
}

// IsWebhookEnabled парсит строку UseWebhook в boolean
func (c *Config) IsWebhookEnabled() bool {
	return c.UseWebhook == "true" || c.UseWebhook == "1" || c.UseWebhook == "True"
}
