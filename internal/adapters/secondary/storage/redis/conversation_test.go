package redis

import (
	"context"
	"testing"
	"time"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	client := NewClient(rdb)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestConversationStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewConversationStore(client)

	conv, err := store.Get(ctx, 10)
	require.NoError(t, err)
	assert.True(t, conv.IsIdle())

	require.NoError(t, store.Set(ctx, 10, domain.AwaitingPayment(false, "10_1700000000000")))
	assert.True(t, mr.Exists("stars_bot:conversation:10"))

	conv, err = store.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.StepAwaitingPayment, conv.Step)
	assert.Equal(t, "10_1700000000000", conv.OrderID)

	require.NoError(t, store.Clear(ctx, 10))
	assert.False(t, mr.Exists("stars_bot:conversation:10"))
}

func TestConversationStoreDoesNotExpire(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewConversationStore(client)

	require.NoError(t, store.Set(ctx, 11, domain.AwaitingPayment(false, "11_1700000000000")))
	assert.Zero(t, mr.TTL("stars_bot:conversation:11"))

	mr.FastForward(30 * 24 * time.Hour)

	conv, err := store.Get(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, domain.StepAwaitingPayment, conv.Step)
	assert.Equal(t, "11_1700000000000", conv.OrderID)
}

func TestConversationStoreSetIdleClears(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewConversationStore(client)

	require.NoError(t, store.Set(ctx, 12, domain.AwaitingInput(false)))
	require.NoError(t, store.Set(ctx, 12, domain.IdleConversation()))
	assert.False(t, mr.Exists("stars_bot:conversation:12"))
}

func TestConversationStoreBrokenValue(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewConversationStore(client)

	require.NoError(t, mr.Set("stars_bot:conversation:13", "{not json"))

	conv, err := store.Get(ctx, 13)
	assert.Error(t, err)
	assert.True(t, conv.IsIdle())
}
