package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrDestinationRequired is returned when publishing to an empty topic or subject.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrUnsupported is returned for options the broker cannot honor.
	ErrUnsupported = errors.New("messaging: unsupported operation")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("messaging: publisher closed")
)

// Publisher sends messages to a destination (topic or subject).
type Publisher interface {
	io.Closer

	Publish(ctx context.Context, destination string, msg Message) (Receipt, error)
}

// Message is a broker-neutral outgoing message.
type Message struct {
	Body []byte
	// Key drives Kafka partitioning and the Pub/Sub ordering key.
	Key []byte
	// Headers are dropped by brokers without header support (NSQ).
	Headers []Header
	// Delay defers delivery; only NSQ supports it.
	Delay time.Duration
}

// Header is a message header. Keys may repeat.
type Header struct {
	Key   string
	Value []byte
}

// Receipt describes an accepted message. Fields a broker does not report are zero.
type Receipt struct {
	MessageID   string
	Destination string
	Partition   int
	Offset      int64
	AcceptedAt  time.Time
}
