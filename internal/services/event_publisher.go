package services

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"bankingapi/configs"
	"bankingapi/internal/models"
	kafkautils "bankingapi/pkg/kafka"
)

// EventPublisher fans committed journal rows out to downstream consumers
// (audit trail, notifications). Publishing happens after commit and is never
// allowed to fail a transfer.
type EventPublisher interface {
	PublishTransaction(txn models.Transaction) error
	Close()
}

type KafkaEventPublisher struct {
	logger   *zap.Logger
	producer *kafka.Producer
	cnf      *configs.Config
}

// NewKafkaEventPublisher creates and initializes an EventPublisher with the provided
// logger and configuration. Returns a no-op publisher when no brokers are configured,
// so local runs and tests work without a Kafka cluster.
func NewKafkaEventPublisher(logger *zap.Logger, ctx context.Context, cnf *configs.Config) (EventPublisher, error) {
	if cnf.KafkaBrokers == "" {
		logger.Warn("no kafka brokers configured; transaction events disabled")
		return NoopEventPublisher{}, nil
	}

	// Initialize Kafka topics
	topicConfig := kafkautils.KafkaConfig{
		BootstrapServers: cnf.KafkaBrokers,
		Topics: []kafkautils.TopicConfig{
			{
				Topic:             cnf.KafkaTopic,
				NumPartitions:     int(cnf.KafkaPartition),
				ReplicationFactor: 1,
				Config: map[string]string{
					"cleanup.policy": "delete",
				},
			},
		},
	}
	if err := kafkautils.InitKafkaTopics(logger, ctx, topicConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize kafka topics: %w", err)
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cnf.KafkaBrokers, // Kafka broker(s)
		"acks":               "all",            // Wait for all replicas
		"enable.idempotence": "true",           // Ensure messages are not sent twice
		"retries":            "1",              // Built-in retry mechanism
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info("kafka producer created successfully", zap.String("brokers", cnf.KafkaBrokers))
	go handleDeliveryReports(logger, p) // Async error handling
	return &KafkaEventPublisher{
		logger:   logger,
		cnf:      cnf,
		producer: p,
	}, nil
}

func (k *KafkaEventPublisher) PublishTransaction(txn models.Transaction) error {
	// Serialize the journal row to JSON for Kafka transport
	msgBytes, err := json.Marshal(txn)
	if err != nil {
		return err
	}

	// Deterministic partitioning by account number keeps per-account ordering
	h := fnv.New32a()
	_, _ = h.Write([]byte(txn.AccountNumber))
	partition := int32(h.Sum32() % k.cnf.KafkaPartition)

	// Produce the message asynchronously; delivery results are handled by handleDeliveryReports
	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.cnf.KafkaTopic,
			Partition: partition,
		},
		Key:   []byte(txn.AccountNumber),
		Value: msgBytes,
	}, nil)
}

func (k *KafkaEventPublisher) Close() {
	k.producer.Close()
}

func handleDeliveryReports(logger *zap.Logger, p *kafka.Producer) {
	for e := range p.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logger.Error("failed to publish message", zap.Error(ev.TopicPartition.Error))
			}
		}
	}
}

// NoopEventPublisher drops events. Used when event publishing is disabled.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishTransaction(models.Transaction) error { return nil }
func (NoopEventPublisher) Close()                                      {}
