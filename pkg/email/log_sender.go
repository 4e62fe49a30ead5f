package email

import (
	"context"
	"log/slog"
)

type logSender struct {
	logger *slog.Logger
}

// NewLogSender returns a sender that logs messages instead of
// delivering them. Used in development and tests.
func NewLogSender(logger *slog.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "email suppressed (log sender)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("tag", msg.Tag),
	)
	return nil
}
