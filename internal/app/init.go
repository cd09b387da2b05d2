package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	server "github.com/admin/tg-bots/stars-bot/internal/adapters/primary/http"
	adminController "github.com/admin/tg-bots/stars-bot/internal/adapters/primary/http/controllers/admin"
	alerterController "github.com/admin/tg-bots/stars-bot/internal/adapters/primary/http/controllers/alerter"
	healthcheckController "github.com/admin/tg-bots/stars-bot/internal/adapters/primary/http/controllers/healthcheck"
	paymentController "github.com/admin/tg-bots/stars-bot/internal/adapters/primary/http/controllers/payment"
	telegramController "github.com/admin/tg-bots/stars-bot/internal/adapters/primary/http/controllers/telegram"
	alerterAdapter "github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/kafka"
	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/payment/freekassa"
	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/payment/manual"
	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/s3"
	tgAdapter "github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/telegram"
	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/cache"
	"github.com/admin/tg-bots/stars-bot/internal/ports/kafka"
	"github.com/admin/tg-bots/stars-bot/internal/ports/payment"
	"github.com/admin/tg-bots/stars-bot/internal/ports/repository"
	"github.com/admin/tg-bots/stars-bot/internal/ports/service"
	"github.com/admin/tg-bots/stars-bot/internal/ports/storage"
	accountRepo "github.com/admin/tg-bots/stars-bot/internal/repository/account"
	orderRepo "github.com/admin/tg-bots/stars-bot/internal/repository/order"
	alerterService "github.com/admin/tg-bots/stars-bot/internal/services/alerter"
	jobScheduler "github.com/admin/tg-bots/stars-bot/internal/services/jobs"
	telegramService "github.com/admin/tg-bots/stars-bot/internal/services/telegram"
	paymentUsecase "github.com/admin/tg-bots/stars-bot/internal/usecases/payment"
	starsUsecase "github.com/admin/tg-bots/stars-bot/internal/usecases/stars"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB             *sqlx.DB
	SQLite         *gorm.DB
	HTTPServer     *http.Server
	TelegramPoller *tgAdapter.Poller
	EventPublisher kafka.IOrderEventPublisher
	Cache          cache.Cache
	JobScheduler   *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	repos, err := a.initRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	conversations, cacheClient := a.initConversations()

	tgClient, err := tgAdapter.NewClient(a.Cfg.Telegram.BotToken, a.Cfg.Telegram.Debug, a.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram client: %w", err)
	}
	tgService := telegramService.New(tgClient, a.Log)

	alerter, err := a.initAlerter(tgClient)
	if err != nil {
		return nil, fmt.Errorf("failed to init alerter: %w", err)
	}

	provider, err := a.initPaymentProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to init payment provider: %w", err)
	}

	publisher := a.initEventPublisher()
	reports := a.initReportStorage()

	starsUseCase, err := a.initStarsUseCase(repos, conversations, tgService, provider, publisher, alerter, reports, tgClient.Username())
	if err != nil {
		return nil, err
	}
	tgService.SetBotService(starsUseCase)

	paymentUseCase := paymentUsecase.New(repos.Order, provider, starsUseCase, alerter, a.Log)

	httpServer := a.initHTTP(repos, cacheClient, tgService, paymentUseCase, starsUseCase, alerter)

	poller, err := a.initTelegramMode(ctx, tgService, tgClient)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram mode: %w", err)
	}

	if err := a.registerBotCommands(ctx, tgClient); err != nil {
		a.Log.Warn("failed to register bot commands", "error", err)
	}

	scheduler, err := a.initJobScheduler(alerter, starsUseCase)
	if err != nil {
		return nil, fmt.Errorf("failed to init job scheduler: %w", err)
	}

	return &Dependencies{
		DB:             repos.DB,
		SQLite:         repos.SQLite,
		HTTPServer:     httpServer,
		TelegramPoller: poller,
		EventPublisher: publisher,
		Cache:          cacheClient,
		JobScheduler:   scheduler,
	}, nil
}

// repositories аккаунты в postgres или sqlite, заказы в postgres или в памяти процесса
type repositories struct {
	DB      *sqlx.DB
	SQLite  *gorm.DB
	Account repository.IAccountRepo
	Order   repository.IOrderRepo
}

func (a *App) initRepositories(ctx context.Context) (*repositories, error) {
	repos := &repositories{}

	switch a.Cfg.StorageDriver {
	case StorageSQLite:
		db, err := a.Cfg.SQLite.NewDB(a.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		accounts, err := accountRepo.NewGorm(db, a.Log)
		if err != nil {
			return nil, err
		}
		repos.SQLite = db
		repos.Account = accounts
		// заказы живут только в памяти, после рестарта теряются
		repos.Order = inmemory.NewOrderStore()
		a.Log.Warn("orders are kept in memory and are lost on restart")
	default:
		db, err := a.initPostgres(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		persistenceLayer := pg.NewDB(db)
		repos.DB = db
		repos.Account = accountRepo.New(persistenceLayer, a.Log)
		repos.Order = orderRepo.New(persistenceLayer, a.Log)
	}

	return repos, nil
}

func (a *App) initPostgres(ctx context.Context) (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(ctx, db, a.Log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// initConversations Redis опционален, при ошибке подключения диалоги живут в памяти
func (a *App) initConversations() (cache.IConversationStore, cache.Cache) {
	if a.Cfg.Redis.IsEnabled() {
		redisClient, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			a.Log.Warn("failed to init redis, keeping conversations in memory", "error", err)
		} else {
			a.Log.Info("redis connected successfully")
			client := redisAdapter.NewClient(redisClient)
			return redisAdapter.NewConversationStore(client), client
		}
	}

	return inmemory.NewConversationStore(), nil
}

// initAlerter без CHAT_ID алерты только пишутся в лог
func (a *App) initAlerter(tgClient *tgAdapter.Client) (service.IAlerterService, error) {
	client, err := alerterAdapter.NewClient(a.Cfg.Alerter, tgClient, a.Log)
	if err != nil {
		return nil, err
	}
	if client == nil {
		a.Log.Info("alerter chat is not configured, alerts go to log only")
		return alerterService.New(nil, a.Log), nil
	}
	return alerterService.New(client, a.Log), nil
}

func (a *App) initPaymentProvider() (payment.IPaymentProvider, error) {
	switch a.Cfg.Payment.PaymentMode() {
	case domain.PaymentModeWebhook:
		return freekassa.NewProvider(a.Cfg.Payment.FreeKassa, a.Log)
	default:
		return manual.NewProvider(a.Cfg.Payment.ManualConfig())
	}
}

// initEventPublisher без брокеров события заказов только логируются
func (a *App) initEventPublisher() kafka.IOrderEventPublisher {
	if a.Cfg.Kafka.IsEnabled() {
		producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
		if err == nil {
			a.Log.Info("kafka producer connected", "topic", a.Cfg.Kafka.Topic)
			return producer
		}
		a.Log.Warn("failed to create kafka producer, order events go to log", "error", err)
	}
	return kafkaAdapter.NewLogPublisher(a.Log)
}

// initReportStorage без S3 команда /export отвечает, что выгрузка выключена
func (a *App) initReportStorage() storage.IS3Client {
	if !a.Cfg.S3.IsEnabled() {
		return nil
	}
	minioClient, err := a.Cfg.S3.NewClient()
	if err != nil {
		a.Log.Warn("failed to init s3, export is disabled", "error", err)
		return nil
	}
	return s3Adapter.NewClient(minioClient, a.Cfg.S3.Bucket, a.Log)
}

func (a *App) initStarsUseCase(
	repos *repositories,
	conversations cache.IConversationStore,
	tgService *telegramService.Service,
	provider payment.IPaymentProvider,
	publisher kafka.IOrderEventPublisher,
	alerter service.IAlerterService,
	reports storage.IS3Client,
	botUsername string,
) (*starsUsecase.Service, error) {
	pricing, err := a.Cfg.Shop.Pricing()
	if err != nil {
		return nil, fmt.Errorf("invalid pricing: %w", err)
	}

	cfg := starsUsecase.Config{
		AdminID:          a.Cfg.Shop.AdminID,
		Pricing:          pricing,
		Limits:           a.Cfg.Shop.Limits(),
		SubscriptionDays: a.Cfg.Shop.SubscriptionDays,
		ReminderWindow:   a.Cfg.Shop.ReminderWindow,
		BotUsername:      botUsername,
		ExportURLTTL:     a.Cfg.S3.PresignTTL,
	}

	return starsUsecase.New(
		repos.Account,
		repos.Order,
		conversations,
		tgService,
		provider,
		publisher,
		alerter,
		reports,
		cfg,
		a.Log,
	), nil
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(
	repos *repositories,
	cacheClient cache.Cache,
	tgService *telegramService.Service,
	paymentUseCase *paymentUsecase.Service,
	starsUseCase *starsUsecase.Service,
	alerter service.IAlerterService,
) *http.Server {
	var checks []healthcheckController.Check
	if repos.DB != nil {
		checks = append(checks, healthcheckController.Check{Name: "postgres", Pinger: pg.NewDB(repos.DB)})
	}
	if repos.SQLite != nil {
		checks = append(checks, healthcheckController.Check{Name: "sqlite", Pinger: gormPinger{db: repos.SQLite}})
	}
	if cacheClient != nil {
		checks = append(checks, healthcheckController.Check{Name: "redis", Pinger: cacheClient})
	}

	controllers := []server.Controller{
		healthcheckController.New(a.Log, checks...),
		telegramController.New(tgService, a.Cfg.Telegram.WebhookSecret, a.Log),
		paymentController.New(paymentUseCase, a.Log),
		alerterController.New(alerter, a.Cfg.Alerter.WebhookToken, a.Log),
	}

	if a.Cfg.Shop.AdminToken != "" {
		controllers = append(controllers, adminController.New(starsUseCase, a.Cfg.Shop.AdminToken, a.Log))
	} else {
		a.Log.Info("admin http api is disabled, SHOP_ADMIN_TOKEN is empty")
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}

// gormPinger /ready для sqlite
type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// initTelegramMode webhook в проде, polling для локальной разработки
func (a *App) initTelegramMode(
	ctx context.Context,
	tgService *telegramService.Service,
	tgClient *tgAdapter.Client,
) (*tgAdapter.Poller, error) {
	a.Log.Info("telegram configuration",
		"use_webhook", a.Cfg.Telegram.IsWebhookEnabled(),
		"webhook_url", a.Cfg.Telegram.WebhookURL,
	)

	if a.Cfg.Telegram.IsWebhookEnabled() {
		if err := a.setupWebhook(ctx, tgClient); err != nil {
			return nil, fmt.Errorf("failed to setup webhook: %w", err)
		}
		return nil, nil
	}

	a.Log.Warn("polling mode enabled - this should only be used for local development")
	return tgAdapter.NewPoller(tgClient, a.Cfg.Telegram, tgService.HandleUpdate, a.Log), nil
}

func (a *App) setupWebhook(ctx context.Context, tgClient *tgAdapter.Client) error {
	if a.Cfg.Telegram.WebhookURL == "" {
		return fmt.Errorf("webhook_url is required when use_webhook is true")
	}

	webhookURL := fmt.Sprintf("%s/webhook/", a.Cfg.Telegram.WebhookURL)

	setCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := tgClient.SetWebhook(setCtx, webhookURL, a.Cfg.Telegram.WebhookSecret); err != nil {
		return err
	}

	a.Log.Info("webhook set successfully", "webhook_url", webhookURL)
	return nil
}

// registerBotCommands меню команд, админские команды в меню не попадают
func (a *App) registerBotCommands(ctx context.Context, tgClient *tgAdapter.Client) error {
	commands := []tgAdapter.BotCommand{
		{Command: "start", Description: "Начать работу с ботом"},
		{Command: "subscription", Description: "Моя подписка"},
		{Command: "ref", Description: "Реферальная ссылка"},
		{Command: "cancel", Description: "Отменить заказ"},
		{Command: "help", Description: "Помощь"},
	}

	return tgClient.SetMyCommands(ctx, commands)
}

// initJobScheduler напоминания об окончании подписки
func (a *App) initJobScheduler(alerter service.IAlerterService, reminders *starsUsecase.Service) (*jobScheduler.Scheduler, error) {
	scheduler := jobScheduler.NewScheduler(a.Log, alerter)

	reminder, err := jobScheduler.NewExpiryReminder(reminders, a.Cfg.Jobs.ExpiryReminderSchedule, a.Log)
	if err != nil {
		return nil, err
	}
	scheduler.Register(reminder)
	a.Log.Info("expiry reminder job registered", "schedule", a.Cfg.Jobs.ExpiryReminderSchedule)

	return scheduler, nil
}
