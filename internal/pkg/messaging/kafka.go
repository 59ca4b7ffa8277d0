package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when KafkaConfig.Brokers is empty.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

type KafkaConfig struct {
	Brokers []string
	// BatchTimeout bounds how long a message waits for its batch. Defaults to 10ms.
	BatchTimeout time.Duration
	Transport    kafka.RoundTripper
}

// Kafka publishes through one kafka-go Writer; the topic is set per message.
type Kafka struct {
	writer *kafka.Writer
	closed atomic.Bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}

	return &Kafka{writer: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: false,
		Transport:              cfg.Transport,
	}}, nil
}

func (k *Kafka) Publish(ctx context.Context, destination string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if destination == "" {
		return Receipt{}, ErrDestinationRequired
	}
	if msg.Delay > 0 {
		return Receipt{}, ErrUnsupported
	}
	if k.closed.Load() {
		return Receipt{}, ErrClosed
	}

	kmsg := kafka.Message{
		Topic: destination,
		Key:   msg.Key,
		Value: msg.Body,
		Time:  time.Now(),
	}
	for _, h := range msg.Headers {
		if h.Key != "" {
			kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: h.Key, Value: h.Value})
		}
	}

	if err := k.writer.WriteMessages(ctx, kmsg); err != nil {
		return Receipt{}, fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return Receipt{Destination: destination, AcceptedAt: kmsg.Time}, nil
}

func (k *Kafka) Close() error {
	if !k.closed.CompareAndSwap(false, true) {
		return nil
	}
	return k.writer.Close()
}
