package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var producer *kafka.Producer

// Message is one keyed payload to publish.
type Message struct {
	Key   string
	Value []byte
}

func InitKafkaProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      cfg.TransactionalID,
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	if err := p.InitTransactions(context.Background()); err != nil {
		return fmt.Errorf("[KafkaClient] Failed to init transactions: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseKafkaProducer() {
	if producer == nil {
		return
	}
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := producer.Flush(int(FLUSH_TIMEOUT.Milliseconds())); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// PublishReport publishes a serialized report document keyed by run ID.
func PublishReport(ctx context.Context, topic, runID string, payload []byte) error {
	return PublishMessages(ctx, topic, []Message{{Key: runID, Value: payload}})
}

// PublishMessages produces msgs to topic inside one transaction, so consumers
// reading committed data see all of them or none.
func PublishMessages(ctx context.Context, topic string, msgs []Message) error {
	if producer == nil {
		return fmt.Errorf("[KafkaClient] producer is not initialized")
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := producer.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] failed to begin transaction: %w", err)
	}

	for _, m := range msgs {
		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Key:            []byte(m.Key),
			Value:          m.Value,
		}

		var err error
		for i := 0; i < MAX_RETRIES; i++ {
			if err = producer.Produce(msg, nil); err == nil {
				break
			}
			slog.Warn("[KafkaClient] Failed to produce message, retrying...",
				slog.Int("attempt", i+1),
				slog.String("key", m.Key))
		}
		if err != nil {
			if abortErr := producer.AbortTransaction(ctx); abortErr != nil {
				return fmt.Errorf("[KafkaClient] failed to abort transaction after produce error: %w", abortErr)
			}
			return fmt.Errorf("[KafkaClient] failed to produce message: %w", err)
		}
	}

	var commitErr error
	for i := 0; i < MAX_RETRIES; i++ {
		if commitErr = producer.CommitTransaction(ctx); commitErr == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", i+1))
	}
	if commitErr != nil {
		return fmt.Errorf("[KafkaClient] failed to commit transaction after %d retries: %w", MAX_RETRIES, commitErr)
	}

	slog.Info("[KafkaClient] Published messages transactionally",
		slog.String("topic", topic),
		slog.Int("count", len(msgs)))
	return nil
}
