package payment

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/tg-bots/stars-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/tg-bots/stars-bot/internal/domain"
)

const testSign = "good-sign"

type fakeProvider struct {
	mode domain.PaymentMode
}

func (p *fakeProvider) Mode() domain.PaymentMode { return p.mode }

func (p *fakeProvider) Instruction(context.Context, *domain.Order) (domain.PaymentInstruction, error) {
	return domain.PaymentInstruction{URL: "https://pay.example/"}, nil
}

func (p *fakeProvider) VerifyNotification(n domain.PaymentNotification) error {
	if n.Sign != testSign {
		return domain.ErrInvalidSignature
	}
	return nil
}

type recordingHandler struct {
	mu   sync.Mutex
	paid []string
}

func (h *recordingHandler) OnOrderPaid(_ context.Context, order *domain.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paid = append(h.paid, order.ID)
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.paid)
}

type recordingAlerter struct {
	alerts []string
}

func (a *recordingAlerter) SendAlert(_ context.Context, message string) error {
	a.alerts = append(a.alerts, message)
	return nil
}

type fixture struct {
	svc     *Service
	orders  *inmemory.OrderStore
	handler *recordingHandler
	alerter *recordingAlerter
}

func newFixture(t *testing.T, mode domain.PaymentMode) *fixture {
	t.Helper()
	orders := inmemory.NewOrderStore()
	handler := &recordingHandler{}
	alerter := &recordingAlerter{}
	svc := New(orders, &fakeProvider{mode: mode}, handler, alerter, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{svc: svc, orders: orders, handler: handler, alerter: alerter}
}

func (f *fixture) addOrder(t *testing.T, id string, cost string) {
	t.Helper()
	require.NoError(t, f.orders.Create(context.Background(), &domain.Order{
		ID:         id,
		UserID:     42,
		Username:   "buyer_1",
		Recipient:  "durov",
		StarsCount: 50,
		Cost:       decimal.RequireFromString(cost),
		Status:     domain.OrderStatusPending,
		CreatedAt:  time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
	}))
}

func notification(orderID, amount, sign string) domain.PaymentNotification {
	return domain.PaymentNotification{MerchantID: "777", Amount: amount, OrderID: orderID, Sign: sign, UserID: "42"}
}

func TestConfirmPaymentAccepted(t *testing.T) {
	f := newFixture(t, domain.PaymentModeWebhook)
	f.addOrder(t, "42_1", "259.50")

	outcome, err := f.svc.ConfirmPayment(context.Background(), notification("42_1", "259.50", testSign))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentAccepted, outcome)

	order, err := f.orders.Get(context.Background(), "42_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, 1, f.handler.count())
}

func TestConfirmPaymentReplayDoesNotNotifyTwice(t *testing.T) {
	f := newFixture(t, domain.PaymentModeWebhook)
	f.addOrder(t, "42_1", "100")
	n := notification("42_1", "100.00", testSign)

	outcome, err := f.svc.ConfirmPayment(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentAccepted, outcome)

	outcome, err = f.svc.ConfirmPayment(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentAlreadyPaid, outcome)
	assert.Equal(t, 1, f.handler.count())
}

func TestConfirmPaymentConcurrentReplays(t *testing.T) {
	f := newFixture(t, domain.PaymentModeWebhook)
	f.addOrder(t, "42_1", "100")
	n := notification("42_1", "100", testSign)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.ConfirmPayment(context.Background(), n)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.handler.count())
}

func TestConfirmPaymentForgedSign(t *testing.T) {
	f := newFixture(t, domain.PaymentModeWebhook)
	f.addOrder(t, "42_1", "100")

	_, err := f.svc.ConfirmPayment(context.Background(), notification("42_1", "100", "forged"))
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	order, err := f.orders.Get(context.Background(), "42_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 0, f.handler.count())
	assert.Len(t, f.alerter.alerts, 1)
}

func TestConfirmPaymentNoOps(t *testing.T) {
	tests := []struct {
		name    string
		n       domain.PaymentNotification
		outcome domain.PaymentOutcome
	}{
		{name: "unknown order", n: notification("missing", "100", testSign), outcome: domain.PaymentUnknownOrder},
		{name: "underpaid", n: notification("42_1", "99.99", testSign), outcome: domain.PaymentUnderpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, domain.PaymentModeWebhook)
			f.addOrder(t, "42_1", "100")

			outcome, err := f.svc.ConfirmPayment(context.Background(), tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, outcome)

			order, err := f.orders.Get(context.Background(), "42_1")
			require.NoError(t, err)
			assert.Equal(t, domain.OrderStatusPending, order.Status)
			assert.Equal(t, 0, f.handler.count())
		})
	}
}

func TestConfirmPaymentOverpaidAccepted(t *testing.T) {
	f := newFixture(t, domain.PaymentModeWebhook)
	f.addOrder(t, "42_1", "100")

	outcome, err := f.svc.ConfirmPayment(context.Background(), notification("42_1", "150", testSign))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentAccepted, outcome)
}

func TestConfirmPaymentCancelledOrderNotResurrected(t *testing.T) {
	f := newFixture(t, domain.PaymentModeWebhook)
	f.addOrder(t, "42_1", "100")

	_, err := f.orders.Update(context.Background(), "42_1", func(o *domain.Order) error { return o.Cancel() })
	require.NoError(t, err)

	outcome, err := f.svc.ConfirmPayment(context.Background(), notification("42_1", "100", testSign))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentAlreadyPaid, outcome)

	order, err := f.orders.Get(context.Background(), "42_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	assert.Equal(t, 0, f.handler.count())
	assert.Len(t, f.alerter.alerts, 1)
}

func TestConfirmPaymentManualMode(t *testing.T) {
	f := newFixture(t, domain.PaymentModeManual)
	f.addOrder(t, "42_1", "100")

	outcome, err := f.svc.ConfirmPayment(context.Background(), notification("42_1", "100", testSign))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentNotApplicable, outcome)
	assert.Equal(t, 0, f.handler.count())
}

func TestConfirmPaymentMalformedAmount(t *testing.T) {
	f := newFixture(t, domain.PaymentModeWebhook)
	f.addOrder(t, "42_1", "100")

	_, err := f.svc.ConfirmPayment(context.Background(), notification("42_1", "abc", testSign))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	order, err := f.orders.Get(context.Background(), "42_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}
