package app

import (
	"fmt"
	"time"

	server "github.com/admin/tg-bots/stars-bot/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/kafka"
	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/payment/freekassa"
	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/payment/manual"
	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/s3"
	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/sqlite"
	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/telegram"
	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// StorageDriver где хранятся аккаунты
type StorageDriver string

const (
	StoragePostgres StorageDriver = "postgres"
	StorageSQLite   StorageDriver = "sqlite"
)

type Config struct {
	StorageDriver StorageDriver          `envconfig:"STORAGE_DRIVER" default:"postgres"`
	Postgres      *pg.Config             `envconfig:"POSTGRES"`
	SQLite        *sqlite.Config         `envconfig:"SQLITE"`
	Redis         *redisAdapter.Config   `envconfig:"REDIS"`
	Kafka         *kafkaAdapter.Config   `envconfig:"KAFKA"`
	S3            *s3Adapter.Config      `envconfig:"S3"`
	Log           *logger.Config         `envconfig:"LOG"`
	Server        *server.Config         `envconfig:"APISERVER"`
	Telegram      *telegram.Config       `envconfig:"TELEGRAM"`
	Alerter       *alerterAdapter.Config `envconfig:"ALERTER"`
	Shop          *ShopConfig            `envconfig:"SHOP"`
	Payment       *PaymentConfig         `envconfig:"PAYMENT"`
	Jobs          *JobsConfig            `envconfig:"JOBS"`
}

// ShopConfig параметры магазина: админ, цены, лимиты
type ShopConfig struct {
	AdminID          int64         `envconfig:"ADMIN_ID" required:"true"`
	PricingPolicy    string        `envconfig:"PRICING_POLICY" default:"bundled"`
	Rate             string        `envconfig:"RATE" default:"1.5"`
	FlatFee          string        `envconfig:"FLAT_FEE" default:"100"`
	MinStars         int           `envconfig:"MIN_STARS" default:"50"`
	MaxStars         int           `envconfig:"MAX_STARS" default:"10000"`
	SubscriptionDays int           `envconfig:"SUBSCRIPTION_DAYS" default:"30"`
	ReminderWindow   time.Duration `envconfig:"REMINDER_WINDOW" default:"24h"`
	// AdminToken X-Admin-Token для /admin/*, пусто - HTTP админка выключена
	AdminToken string `envconfig:"ADMIN_TOKEN"`
}

func (c *ShopConfig) Validate() error {
	if c.AdminID <= 0 {
		return fmt.Errorf("admin id must be positive")
	}
	if _, err := c.Pricing(); err != nil {
		return err
	}
	if c.MinStars <= 0 || c.MaxStars < c.MinStars {
		return fmt.Errorf("invalid stars limits [%d, %d]", c.MinStars, c.MaxStars)
	}
	if c.SubscriptionDays < 0 {
		return fmt.Errorf("subscription days must not be negative")
	}
	return nil
}

// Pricing тариф из строковых значений конфига
func (c *ShopConfig) Pricing() (domain.Pricing, error) {
	rate, err := decimal.NewFromString(c.Rate)
	if err != nil {
		return domain.Pricing{}, fmt.Errorf("invalid rate %q: %w", c.Rate, err)
	}
	fee, err := decimal.NewFromString(c.FlatFee)
	if err != nil {
		return domain.Pricing{}, fmt.Errorf("invalid flat fee %q: %w", c.FlatFee, err)
	}
	return domain.NewPricing(domain.PricingPolicy(c.PricingPolicy), rate, fee)
}

func (c *ShopConfig) Limits() domain.QuantityLimits {
	return domain.QuantityLimits{Min: c.MinStars, Max: c.MaxStars}
}

// PaymentConfig один способ оплаты на деплой
type PaymentConfig struct {
	Mode       string            `envconfig:"MODE" default:"manual"`
	CardNumber string            `envconfig:"CARD_NUMBER"`
	FreeKassa  *freekassa.Config `envconfig:"FREEKASSA"`
}

func (c *PaymentConfig) ManualConfig() *manual.Config {
	return &manual.Config{CardNumber: c.CardNumber}
}

func (c *PaymentConfig) PaymentMode() domain.PaymentMode {
	return domain.PaymentMode(c.Mode)
}

func (c *PaymentConfig) Validate() error {
	switch c.PaymentMode() {
	case domain.PaymentModeManual:
		if c.CardNumber == "" {
			return fmt.Errorf("card number is required in manual payment mode")
		}
	case domain.PaymentModeWebhook:
		if c.FreeKassa == nil {
			return fmt.Errorf("freekassa config is required in webhook payment mode")
		}
		if err := c.FreeKassa.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown payment mode %q", c.Mode)
	}
	return nil
}

type JobsConfig struct {
	ExpiryReminderSchedule string `envconfig:"EXPIRY_REMINDER_SCHEDULE" default:"@every 1h"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if !c.Postgres.IsEnabled() {
			return fmt.Errorf("postgres host is required for storage driver %q", c.StorageDriver)
		}
	case StorageSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.Shop == nil {
		return fmt.Errorf("shop config is required")
	}
	if err := c.Shop.Validate(); err != nil {
		return fmt.Errorf("shop: %w", err)
	}

	if c.Payment == nil {
		return fmt.Errorf("payment config is required")
	}
	if err := c.Payment.Validate(); err != nil {
		return fmt.Errorf("payment: %w", err)
	}

	return nil
}
