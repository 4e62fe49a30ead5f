// Package email sends transactional security notices (email address
// changed, password changed) through Postmark. A log-only sender is
// provided for development and tests.
package email

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidConfig = errors.New("email: invalid configuration")
	ErrSendFailed    = errors.New("email: failed to send")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Config holds mailer configuration. Tokens may be left empty in
// development, where the log sender is used instead.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@avocadoapp.dev"`
}

// Sender delivers a single transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	BodyHTML string
	Tag      string
}

// Validate checks the message is deliverable.
func (m Message) Validate() error {
	if !emailRegex.MatchString(m.To) {
		return fmt.Errorf("%w: recipient %q is not a valid address", ErrSendFailed, m.To)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrSendFailed)
	}
	if m.BodyHTML == "" {
		return fmt.Errorf("%w: body is required", ErrSendFailed)
	}
	return nil
}
