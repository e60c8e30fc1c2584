// Package services contains clients for external collaborators of the API
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/smitlab/tariff-api/config"
)

// MessageProducer publishes raw payloads to a broker topic. Failures propagate
// to the caller unchanged; there are no retries beyond the transport defaults.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// KafkaProducer implements MessageProducer over a shared kafka-go writer
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a producer bound to the configured brokers
func NewKafkaProducer(cfg config.KafkaConfig) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Transport:              &kafka.Transport{ClientID: cfg.ClientID},
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           cfg.WriteTimeout,
		Async:                  cfg.Async,
	}

	return &KafkaProducer{writer: writer}
}

// Publish sends a single message to the given topic
func (p *KafkaProducer) Publish(ctx context.Context, topic string, payload []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending messages and releases the writer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
