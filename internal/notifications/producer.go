package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// SettlementProducer publishes loyalty settlement events.
type SettlementProducer interface {
	PublishSettlement(ctx context.Context, event *SettlementEvent) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// KafkaProducerConfig contains configuration for the Kafka settlement producer
type KafkaProducerConfig struct {
	Brokers          []string
	SettlementTopic  string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		SettlementTopic:  "loyalty-settlements",
		RetryMax:         3,
		TimeoutMs:        10000,             // 10 seconds
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// KafkaSettlementProducer handles publishing settlement events to Kafka
type KafkaSettlementProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaSettlementProducer creates a new Kafka settlement producer
func NewKafkaSettlementProducer(config *KafkaProducerConfig) (SettlementProducer, error) {
	if config == nil {
		config = DefaultKafkaProducerConfig()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Enable idempotent producer
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps each member's credits on one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaSettlementProducer{
		producer: producer,
		config:   config,
	}, nil
}

// PublishSettlement publishes a single settlement event to Kafka
func (ksp *KafkaSettlementProducer) PublishSettlement(ctx context.Context, event *SettlementEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal settlement event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     ksp.config.SettlementTopic,
		Key:       sarama.StringEncoder(event.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: event.AwardedAt,
	}

	partition, offset, err := ksp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send settlement event to Kafka: %w", err)
	}

	log.Printf("Settlement event published - Topic: %s, Partition: %d, Offset: %d, Booking: %s, Points: %d",
		ksp.config.SettlementTopic, partition, offset, event.BookingRef, event.Points)

	return nil
}

// Close closes the producer
func (ksp *KafkaSettlementProducer) Close() error {
	return ksp.producer.Close()
}

// HealthCheck verifies the producer is usable.
func (ksp *KafkaSettlementProducer) HealthCheck(ctx context.Context) error {
	if ksp.producer == nil {
		return fmt.Errorf("kafka producer is not initialized")
	}
	return nil
}
