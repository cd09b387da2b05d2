package inmemory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder(id string, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:         id,
		UserID:     7,
		Username:   "buyer",
		Recipient:  "durov",
		StarsCount: 50,
		Cost:       decimal.RequireFromString("259.5"),
		Status:     domain.OrderStatusPending,
		CreatedAt:  createdAt,
	}
}

func TestOrderStoreCreateGet(t *testing.T) {
	ctx := context.Background()
	store := NewOrderStore()
	now := time.Now()

	require.NoError(t, store.Create(ctx, pendingOrder("7_1", now)))
	assert.Error(t, store.Create(ctx, pendingOrder("7_1", now)))

	got, err := store.Get(ctx, "7_1")
	require.NoError(t, err)
	assert.Equal(t, "durov", got.Recipient)

	// изменения копии не попадают в хранилище
	got.Status = domain.OrderStatusCompleted
	again, err := store.Get(ctx, "7_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, again.Status)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderStoreUpdateKeepsOrderOnError(t *testing.T) {
	ctx := context.Background()
	store := NewOrderStore()
	require.NoError(t, store.Create(ctx, pendingOrder("7_1", time.Now())))

	boom := errors.New("boom")
	_, err := store.Update(ctx, "7_1", func(o *domain.Order) error {
		o.Status = domain.OrderStatusCancelled
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "7_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, got.Status)

	_, err = store.Update(ctx, "missing", func(o *domain.Order) error { return nil })
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderStoreConcurrentMarkPaidOnce(t *testing.T) {
	ctx := context.Background()
	store := NewOrderStore()
	require.NoError(t, store.Create(ctx, pendingOrder("7_1", time.Now())))

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "7_1", func(o *domain.Order) error {
				return o.MarkPaid(time.Now())
			})
			if err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
}

func TestOrderStoreDeletePending(t *testing.T) {
	ctx := context.Background()
	store := NewOrderStore()
	require.NoError(t, store.Create(ctx, pendingOrder("7_1", time.Now())))
	require.NoError(t, store.Create(ctx, pendingOrder("7_2", time.Now())))

	_, err := store.Update(ctx, "7_2", func(o *domain.Order) error { return o.MarkPaid(time.Now()) })
	require.NoError(t, err)

	deleted, err := store.DeletePending(ctx, "7_1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeletePending(ctx, "7_2")
	require.NoError(t, err)
	assert.False(t, deleted, "paid order must not be deleted")

	deleted, err = store.DeletePending(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOrderStoreListFilter(t *testing.T) {
	ctx := context.Background()
	store := NewOrderStore()
	base := time.Now()

	require.NoError(t, store.Create(ctx, pendingOrder("7_3", base.Add(2*time.Second))))
	require.NoError(t, store.Create(ctx, pendingOrder("7_1", base)))
	require.NoError(t, store.Create(ctx, pendingOrder("7_2", base.Add(time.Second))))
	_, err := store.Update(ctx, "7_2", func(o *domain.Order) error { return o.Cancel() })
	require.NoError(t, err)

	all, err := store.List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"7_1", "7_2", "7_3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	active, err := store.List(ctx, repository.OrderFilter{
		Statuses: []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusPaid},
	})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "7_1", active[0].ID)
	assert.Equal(t, "7_3", active[1].ID)
}
