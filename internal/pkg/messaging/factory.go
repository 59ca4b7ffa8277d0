package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverNSQ          = "nsq"
	DriverGooglePubSub = "google-pubsub"
)

// ErrUnknownDriver is returned by New for an unsupported driver name.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// Options carries per-driver settings; only the selected driver's are read.
type Options struct {
	NATS   NATSConfig
	Kafka  KafkaConfig
	NSQ    NSQConfig
	PubSub PubSubConfig
}

// New builds the Publisher for driver.
func New(ctx context.Context, driver string, opts Options) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverNATS:
		return NewNATS(opts.NATS)
	case DriverKafka:
		return NewKafka(opts.Kafka)
	case DriverNSQ:
		return NewNSQ(opts.NSQ)
	case DriverGooglePubSub:
		return NewPubSub(ctx, opts.PubSub)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
