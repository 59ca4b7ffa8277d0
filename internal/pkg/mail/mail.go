package mail

import (
	"context"
	"io"
)

// Message is an email. At least one recipient and one body are required.
type Message struct {
	// From overrides the transport's default sender.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail delivers messages.
type Mail interface {
	io.Closer

	Send(ctx context.Context, msg Message) error
}
