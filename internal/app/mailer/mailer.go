/*
Package mailer sends transactional email for booking and registration events.

The SendGrid implementation is used outside development; the console
implementation just logs the subject so local runs never need an API key.
*/
package mailer

import (
	"kwakhanya/internal/pkg/logx"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(msg Message) error
}

// Console logs messages instead of delivering them.
type Console struct{}

var _ Mailer = Console{}

func (Console) Send(msg Message) error {
	logx.Info("email would be sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
