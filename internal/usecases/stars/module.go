package stars

import (
	"time"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/cache"
	"github.com/admin/tg-bots/stars-bot/internal/ports/kafka"
	"github.com/admin/tg-bots/stars-bot/internal/ports/payment"
	"github.com/admin/tg-bots/stars-bot/internal/ports/repository"
	"github.com/admin/tg-bots/stars-bot/internal/ports/service"
	"github.com/admin/tg-bots/stars-bot/internal/ports/storage"
	"github.com/admin/tg-bots/stars-bot/internal/ports/usecase"
)

// Config параметры магазина
type Config struct {
	AdminID          int64
	Pricing          domain.Pricing
	Limits           domain.QuantityLimits
	SubscriptionDays int
	ReminderWindow   time.Duration
	BotUsername      string
	ExportURLTTL     time.Duration
}

// Service бизнес-логика бота продажи звёзд
type Service struct {
	AccountRepo     repository.IAccountRepo
	OrderRepo       repository.IOrderRepo
	Conversations   cache.IConversationStore
	TelegramService service.ITelegramService
	PaymentProvider payment.IPaymentProvider
	EventPublisher  kafka.IOrderEventPublisher
	AlerterService  service.IAlerterService
	ReportStorage   storage.IS3Client // nil - выгрузка /export недоступна
	Cfg             Config
	Now             func() time.Time
	Log             *slog.Logger
}

var (
	_ service.IBotService      = (*Service)(nil)
	_ usecase.IAdminUseCase    = (*Service)(nil)
	_ usecase.IReminderUseCase = (*Service)(nil)
)

// New создаёт сервис бизнес-логики бота
func New(
	accountRepo repository.IAccountRepo,
	orderRepo repository.IOrderRepo,
	conversations cache.IConversationStore,
	telegramService service.ITelegramService,
	paymentProvider payment.IPaymentProvider,
	eventPublisher kafka.IOrderEventPublisher,
	alerterService service.IAlerterService,
	reportStorage storage.IS3Client,
	cfg Config,
	log *slog.Logger,
) *Service {
	if cfg.ReminderWindow <= 0 {
		cfg.ReminderWindow = 24 * time.Hour
	}
	if cfg.ExportURLTTL <= 0 {
		cfg.ExportURLTTL = time.Hour
	}

	return &Service{
		AccountRepo:     accountRepo,
		OrderRepo:       orderRepo,
		Conversations:   conversations,
		TelegramService: telegramService,
		PaymentProvider: paymentProvider,
		EventPublisher:  eventPublisher,
		AlerterService:  alerterService,
		ReportStorage:   reportStorage,
		Cfg:             cfg,
		Now:             func() time.Time { return time.Now().UTC() },
		Log:             log,
	}
}

func (s *Service) now() time.Time {
	return s.Now().UTC()
}

func (s *Service) isAdmin(userID int64) bool {
	return s.Cfg.AdminID != 0 && userID == s.Cfg.AdminID
}
