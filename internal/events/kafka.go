package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const flushTimeoutMs = 5000

// KafkaConfig holds configuration for the kafka publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

var _ Publisher = (*KafkaPublisher)(nil)

// KafkaPublisher publishes events keyed by document id so that events of
// one document keep their order within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  strings.Join(cfg.Brokers, ","),
		"acks":               "all",
		"enable.idempotence": true,
		"compression.type":   "gzip",
		"linger.ms":          10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaPublisher{producer: producer, topic: cfg.Topic}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	delivery := make(chan kafka.Event, 1)
	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.DocumentID),
		Value:          value,
		Headers:        []kafka.Header{{Key: "kind", Value: []byte(event.Kind)}},
	}, delivery)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivery:
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery report: %v", e)
		}
		if msg.TopicPartition.Error != nil {
			return fmt.Errorf("failed to deliver event: %w", msg.TopicPartition.Error)
		}
	}

	return nil
}

func (k *KafkaPublisher) Close() error {
	if remaining := k.producer.Flush(flushTimeoutMs); remaining > 0 {
		logrus.Warnf("closing kafka publisher with %d undelivered events", remaining)
	}
	k.producer.Close()

	return nil
}
