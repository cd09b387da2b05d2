package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() domain.OrderEvent {
	return domain.OrderEvent{
		EventID:    "3f0a6c2e-8a4e-4c55-9a1e-0d3c1b7d2f11",
		Type:       domain.OrderEventPaid,
		OrderID:    "42_1700000000000",
		UserID:     42,
		Recipient:  "durov",
		StarsCount: 50,
		Cost:       decimal.RequireFromString("259.5"),
		Status:     domain.OrderStatusPaid,
		OccurredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestProducerPublishOrderEvent(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "42_1700000000000", string(key))
		assert.Equal(t, "order_events", msg.Topic)

		value, err := msg.Value.Encode()
		require.NoError(t, err)

		var decoded domain.OrderEvent
		require.NoError(t, json.Unmarshal(value, &decoded))
		assert.Equal(t, domain.OrderEventPaid, decoded.Type)
		assert.True(t, decoded.Cost.Equal(decimal.RequireFromString("259.5")))

		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[string(h.Key)] = string(h.Value)
		}
		assert.Equal(t, "order.paid", headers["event_type"])
		assert.Equal(t, "3f0a6c2e-8a4e-4c55-9a1e-0d3c1b7d2f11", headers["event_id"])
		return nil
	})

	p := newProducer(sp, "order_events", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, p.PublishOrderEvent(context.Background(), testEvent()))
	require.NoError(t, p.Close())
}

func TestProducerPublishOrderEventError(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)
	sp.ExpectSendMessageAndFail(errors.New("broker down"))

	p := newProducer(sp, "order_events", slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := p.PublishOrderEvent(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "42_1700000000000")
	require.NoError(t, p.Close())
}

func TestConfigBrokers(t *testing.T) {
	cfg := &Config{Brokers: "a:9092, b:9092"}
	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.GetBrokers())

	assert.False(t, (&Config{}).IsEnabled())
}
