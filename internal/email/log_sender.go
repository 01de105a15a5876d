package email

import (
	"context"

	"github.com/redmonkez12/jeogi-market/internal/logging"
)

// LogSender writes messages to the log instead of delivering them.
// Used in development when no provider is configured.
type LogSender struct {
	logger *logging.Logger
}

func NewLogSender(logger *logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not delivered (no provider configured)",
		"to", msg.To,
		"subject", msg.Subject,
		"bytes", len(msg.HTML),
	)
	s.logger.Debug("email body", "html", msg.HTML)
	return nil
}
