package kafka

import (
	"strings"
)

// Config конфигурация Kafka producer
type Config struct {
	Brokers          string `envconfig:"BROKERS"`                             // "broker1:9092,broker2:9092"
	Topic            string `envconfig:"TOPIC" default:"stars_order_events"` // название топика
	SecurityProtocol string `envconfig:"SECURITY_PROTOCOL"`                   // "SASL_SSL", "PLAINTEXT"
	SASLMechanism    string `envconfig:"SASL_MECHANISM"`                      // "PLAIN", "SCRAM-SHA-256"
	SASLUsername     string `envconfig:"SASL_USERNAME"`
	SASLPassword     string `envconfig:"SASL_PASSWORD"`
}

// IsEnabled без брокеров события заказов никуда не публикуются
func (c *Config) IsEnabled() bool {
	return c != nil && strings.TrimSpace(c.Brokers) != ""
}

// GetBrokers возвращает список брокеров из строки
func (c *Config) GetBrokers() []string {
	if c.Brokers == "" {
		return []string{"localhost:9092"}
	}
	brokers := strings.Split(c.Brokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}
