package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ticketflow/internal/shared/config"
	"ticketflow/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes reservation lifecycle events. The booking flow treats
// publishing as fire-and-forget: a broker outage never fails a reservation.
type Producer interface {
	PublishReservationEvent(ctx context.Context, event ReservationEvent) error
	Close() error
}

// KafkaProducer publishes reservation events to a single topic, partitioned
// by showtime so per-showtime ordering holds for consumers.
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaProducer creates a sync producer with idempotent writes enabled.
func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		topic:    cfg.Topic,
		log:      logger.GetDefault(),
	}, nil
}

// PublishReservationEvent sends one lifecycle event keyed by showtime.
func (p *KafkaProducer) PublishReservationEvent(_ context.Context, event ReservationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ShowtimeID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("order_id"), Value: []byte(event.OrderID)},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send reservation event: %w", err)
	}

	p.log.WithFields(map[string]interface{}{
		"type":      event.Type,
		"order_id":  event.OrderID,
		"partition": partition,
		"offset":    offset,
	}).Debug("Reservation event published")

	return nil
}

func (p *KafkaProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// NoopProducer is used when Kafka is disabled.
type NoopProducer struct{}

func NewNoopProducer() *NoopProducer {
	return &NoopProducer{}
}

func (*NoopProducer) PublishReservationEvent(context.Context, ReservationEvent) error {
	return nil
}

func (*NoopProducer) Close() error {
	return nil
}
