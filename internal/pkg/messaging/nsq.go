package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

// ErrNSQAddrRequired is returned when NSQConfig.Addr is empty.
var ErrNSQAddrRequired = errors.New("messaging: nsqd address is required")

type NSQConfig struct {
	// Addr is the nsqd TCP address.
	Addr   string
	Config *nsq.Config
}

// NSQ publishes to nsqd topics. NSQ has no headers, so Message.Headers are
// dropped.
type NSQ struct {
	producer *nsq.Producer
	closed   atomic.Bool
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.Addr == "" {
		return nil, ErrNSQAddrRequired
	}

	c := cfg.Config
	if c == nil {
		c = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.Addr, c)
	if err != nil {
		return nil, fmt.Errorf("messaging: nsq producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)

	return &NSQ{producer: p}, nil
}

func (n *NSQ) Publish(ctx context.Context, destination string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if destination == "" {
		return Receipt{}, ErrDestinationRequired
	}
	if n.closed.Load() {
		return Receipt{}, ErrClosed
	}

	var err error
	if msg.Delay > 0 {
		err = n.producer.DeferredPublish(destination, msg.Delay, msg.Body)
	} else {
		err = n.producer.Publish(destination, msg.Body)
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("messaging: nsq publish: %w", err)
	}

	return Receipt{Destination: destination, AcceptedAt: time.Now()}, nil
}

func (n *NSQ) Close() error {
	if n.closed.CompareAndSwap(false, true) {
		n.producer.Stop()
	}
	return nil
}
