package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/IBM/sarama"
	"github.com/admin/tg-bots/stars-bot/internal/domain"
	kafkaPort "github.com/admin/tg-bots/stars-bot/internal/ports/kafka"
)

// Producer публикует события заказов в Kafka
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

var _ kafkaPort.IOrderEventPublisher = (*Producer)(nil)

// NewProducer создаёт новый Kafka producer
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return newProducer(producer, cfg.Topic, log), nil
}

func newProducer(producer sarama.SyncProducer, topic string, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

func newSaramaConfig(cfg *Config) *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	// один заказ - одна партиция, порядок событий сохраняется
	config.Producer.Partitioner = sarama.NewHashPartitioner

	if cfg.SecurityProtocol == "SASL_SSL" || cfg.SecurityProtocol == "SASL_PLAINTEXT" {
		config.Net.SASL.Enable = true
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		if cfg.SASLMechanism == "SCRAM-SHA-256" {
			config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		}
		config.Net.SASL.User = cfg.SASLUsername
		config.Net.SASL.Password = cfg.SASLPassword
		if cfg.SecurityProtocol == "SASL_SSL" {
			config.Net.TLS.Enable = true
		}
	}

	return config
}

// PublishOrderEvent ключ сообщения - order_id, тип и id события в headers
func (p *Producer) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.topic,
			"order_id", event.OrderID,
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w", p.topic, event.OrderID, err)
	}

	p.log.Debug("order event sent to kafka",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"order_id", event.OrderID,
		"event_type", event.Type,
	)

	return nil
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
