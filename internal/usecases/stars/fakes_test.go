package stars

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/cache"
)

const (
	adminID  = int64(1000)
	buyerID  = int64(42)
	cardNum  = "2203830201305241"
	payURL   = "https://pay.example/?o="
	botUser  = "stars_shop_bot"
	testRate = "1.19"
	testFee  = "200"
)

type sentMessage struct {
	ChatID   int64
	Text     string
	Keyboard *domain.Keyboard
}

type fakeTelegram struct {
	mu        sync.Mutex
	messages  []sentMessage
	answers   []string
	failChats map[int64]bool
}

func (f *fakeTelegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	return f.SendMessageWithKeyboard(ctx, chatID, text, nil)
}

func (f *fakeTelegram) SendMessageWithKeyboard(_ context.Context, chatID int64, text string, keyboard *domain.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failChats[chatID] {
		return errors.New("Forbidden: bot was blocked by the user")
	}
	f.messages = append(f.messages, sentMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
	return nil
}

func (f *fakeTelegram) AnswerCallbackQuery(_ context.Context, _ string, text string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeTelegram) to(chatID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeTelegram) last(chatID int64) sentMessage {
	msgs := f.to(chatID)
	if len(msgs) == 0 {
		return sentMessage{}
	}
	return msgs[len(msgs)-1]
}

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[int64]*domain.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: make(map[int64]*domain.Account)}
}

func (f *fakeAccounts) GetOrCreate(_ context.Context, userID int64, username string, referrerID *int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[userID]
	if !ok {
		acc = &domain.Account{UserID: userID}
		if referrerID != nil && *referrerID != userID {
			ref := *referrerID
			acc.ReferrerID = &ref
		}
		f.accounts[userID] = acc
	}
	acc.Username = username
	cp := *acc
	return &cp, nil
}

func (f *fakeAccounts) Get(_ context.Context, userID int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeAccounts) ExtendSubscription(_ context.Context, userID int64, days int, now time.Time) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	until := acc.ExtendedUntil(now, days)
	acc.SubscriptionUntil = &until
	cp := *acc
	return &cp, nil
}

func (f *fakeAccounts) ListWithSubscription(_ context.Context) ([]*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Account
	for _, acc := range f.accounts {
		if acc.SubscriptionUntil != nil {
			cp := *acc
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeProvider struct {
	mode domain.PaymentMode
}

func (p *fakeProvider) Mode() domain.PaymentMode { return p.mode }

func (p *fakeProvider) Instruction(_ context.Context, order *domain.Order) (domain.PaymentInstruction, error) {
	if p.mode == domain.PaymentModeManual {
		return domain.PaymentInstruction{CardNumber: cardNum}, nil
	}
	return domain.PaymentInstruction{URL: payURL + order.ID}, nil
}

func (p *fakeProvider) VerifyNotification(domain.PaymentNotification) error { return nil }

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (p *fakePublisher) PublishOrderEvent(_ context.Context, event domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []domain.OrderEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.OrderEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeStorage struct {
	files map[string][]byte
}

func (s *fakeStorage) PutFile(_ context.Context, path string, data []byte, _ string) error {
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[path] = data
	return nil
}

func (s *fakeStorage) GetPresignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "https://s3.example/" + path, nil
}

type fixture struct {
	svc      *Service
	tg       *fakeTelegram
	accounts *fakeAccounts
	orders   *inmemory.OrderStore
	convs    cache.IConversationStore
	events   *fakePublisher
	storage  *fakeStorage
	clock    time.Time
}

func newFixture(t *testing.T, mode domain.PaymentMode, policy domain.PricingPolicy) *fixture {
	t.Helper()

	pricing, err := domain.NewPricing(policy, decimal.RequireFromString(testRate), decimal.RequireFromString(testFee))
	require.NoError(t, err)

	f := &fixture{
		tg:       &fakeTelegram{failChats: map[int64]bool{}},
		accounts: newFakeAccounts(),
		orders:   inmemory.NewOrderStore(),
		convs:    inmemory.NewConversationStore(),
		events:   &fakePublisher{},
		storage:  &fakeStorage{},
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	f.svc = New(
		f.accounts,
		f.orders,
		f.convs,
		f.tg,
		&fakeProvider{mode: mode},
		f.events,
		nil,
		f.storage,
		Config{
			AdminID:          adminID,
			Pricing:          pricing,
			Limits:           domain.DefaultQuantityLimits(),
			SubscriptionDays: 30,
			BotUsername:      botUser,
		},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	// каждый вызов часов сдвигает время, чтобы id заказов не совпадали
	f.svc.Now = func() time.Time {
		f.clock = f.clock.Add(time.Millisecond)
		return f.clock
	}
	return f
}

func (f *fixture) account(t *testing.T, userID int64, username string) *domain.Account {
	t.Helper()
	acc, err := f.accounts.GetOrCreate(context.Background(), userID, username, nil)
	require.NoError(t, err)
	return acc
}

func (f *fixture) conversation(t *testing.T, userID int64) domain.Conversation {
	t.Helper()
	conv, err := f.convs.Get(context.Background(), userID)
	require.NoError(t, err)
	return conv
}

// placeOrder проходит диалог до создания pending заказа
func (f *fixture) placeOrder(t *testing.T, acc *domain.Account, input string) *domain.Order {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.StartFlow(ctx, acc, acc.UserID, false))
	require.NoError(t, f.svc.HandleText(ctx, acc, acc.UserID, input))

	conv := f.conversation(t, acc.UserID)
	require.Equal(t, domain.StepAwaitingPayment, conv.Step)
	order, err := f.orders.Get(ctx, conv.OrderID)
	require.NoError(t, err)
	return order
}

func callback(data string, chatID int64) *domain.CallbackQuery {
	return &domain.CallbackQuery{
		ID:      "cb-1",
		Data:    &data,
		Message: &domain.Message{Chat: &domain.Chat{ID: chatID, Type: "private"}},
	}
}
