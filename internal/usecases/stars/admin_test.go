package stars

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/usecases/stars/texts"
)

// seedOrders pending, paid, completed и cancelled заказы
func seedOrders(t *testing.T, f *fixture) []*domain.Order {
	t.Helper()
	ctx := context.Background()
	buyer := f.account(t, buyerID, "buyer_1")

	var orders []*domain.Order
	for i := 0; i < 4; i++ {
		orders = append(orders, f.placeOrder(t, buyer, "durov 100"))
	}

	_, err := f.orders.Update(ctx, orders[1].ID, func(o *domain.Order) error { return o.MarkPaid(f.clock) })
	require.NoError(t, err)
	_, err = f.orders.Update(ctx, orders[2].ID, func(o *domain.Order) error {
		if err := o.MarkPaid(f.clock); err != nil {
			return err
		}
		return o.Complete(f.clock)
	})
	require.NoError(t, err)
	_, err = f.orders.Update(ctx, orders[3].ID, func(o *domain.Order) error { return o.Cancel() })
	require.NoError(t, err)
	return orders
}

func TestStats(t *testing.T) {
	f := newFixture(t, domain.PaymentModeManual, domain.PricingPerUnit)
	seedOrders(t, f)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Paid)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Cancelled)
	// floor(100 * 1.19) = 119 за paid и completed
	assert.True(t, decimal.NewFromInt(238).Equal(stats.Revenue), stats.Revenue.String())
}

func TestListOrders(t *testing.T) {
	f := newFixture(t, domain.PaymentModeManual, domain.PricingPerUnit)
	orders := seedOrders(t, f)

	active, err := f.svc.ListOrders(context.Background(), []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusPaid})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, orders[0].ID, active[0].ID)
	assert.Equal(t, orders[1].ID, active[1].ID)

	_, err = f.svc.ListOrders(context.Background(), []domain.OrderStatus{"refunded"})
	assert.Error(t, err)
}

func TestAdminCommands(t *testing.T) {
	f := newFixture(t, domain.PaymentModeManual, domain.PricingPerUnit)
	seedOrders(t, f)
	admin := f.account(t, adminID, "shop_admin")
	ctx := context.Background()

	require.NoError(t, f.svc.HandleCommand(ctx, admin, adminID, "orders", ""))
	assert.Contains(t, f.tg.last(adminID).Text, "Активные заказы (2)")

	require.NoError(t, f.svc.HandleCommand(ctx, admin, adminID, "stats", ""))
	assert.Contains(t, f.tg.last(adminID).Text, "Выручка: 238.00 руб")

	buyer := f.account(t, buyerID, "buyer_1")
	err := f.svc.HandleCommand(ctx, buyer, buyerID, "stats", "")
	require.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Equal(t, texts.AccessDenied, f.tg.last(buyerID).Text)
}

func TestExportOrders(t *testing.T) {
	f := newFixture(t, domain.PaymentModeManual, domain.PricingPerUnit)
	orders := seedOrders(t, f)
	admin := f.account(t, adminID, "shop_admin")

	require.NoError(t, f.svc.HandleCommand(context.Background(), admin, adminID, "export", ""))
	assert.Contains(t, f.tg.last(adminID).Text, "https://s3.example/exports/")

	require.Len(t, f.storage.files, 1)
	for path, data := range f.storage.files {
		assert.True(t, strings.HasSuffix(path, ".csv"))
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, strings.Join(exportHeader, ","), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], orders[0].ID+","))
	}
}

func TestExportDisabled(t *testing.T) {
	f := newFixture(t, domain.PaymentModeManual, domain.PricingPerUnit)
	f.svc.ReportStorage = nil

	_, _, err := f.svc.ExportOrders(context.Background())
	assert.ErrorIs(t, err, ErrExportDisabled)
}
