package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when NATSConfig.URL is empty.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

const flushTimeout = 5 * time.Second

type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS publishes to NATS core subjects.
type NATS struct {
	conn *nats.Conn
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Publish waits for the server to acknowledge the flush so delivery failures
// surface to the caller.
func (n *NATS) Publish(ctx context.Context, destination string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if destination == "" {
		return Receipt{}, ErrDestinationRequired
	}
	if msg.Delay > 0 {
		return Receipt{}, ErrUnsupported
	}
	if n.conn.IsClosed() {
		return Receipt{}, ErrClosed
	}

	nmsg := nats.NewMsg(destination)
	nmsg.Data = msg.Body
	for _, h := range msg.Headers {
		if h.Key != "" {
			nmsg.Header.Add(h.Key, string(h.Value))
		}
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return Receipt{}, fmt.Errorf("messaging: nats publish: %w", err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return Receipt{}, fmt.Errorf("messaging: nats flush: %w", err)
	}

	return Receipt{Destination: destination, AcceptedAt: time.Now()}, nil
}

func (n *NATS) Close() error {
	if n.conn.IsClosed() {
		return nil
	}
	err := n.conn.Drain()
	n.conn.Close()
	return err
}
