package notification

import (
	"context"

	"github.com/rs/zerolog/log"
)

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer hands a rendered message to the delivery transport.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type logMailer struct{}

// NewLogMailer returns a Mailer that writes messages to the application log instead of delivering them.
func NewLogMailer() Mailer {
	return logMailer{}
}

func (logMailer) Send(_ context.Context, msg Message) error {
	log.Info().
		Str("from", msg.From).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("body_bytes", len(msg.Body)).
		Msg("booking mail sent")

	log.Debug().Str("to", msg.To).Msg(msg.Body)

	return nil
}
