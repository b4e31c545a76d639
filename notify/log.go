package notify

import (
	"context"
	"log/slog"
)

// LogMessenger logs messages using slog (for testing/debugging).
type LogMessenger struct {
	Logger *slog.Logger
}

// NewLogMessenger creates a messenger that logs to the given logger.
// If logger is nil, uses the default slog logger.
func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMessenger{Logger: logger}
}

// Send implements Messenger.
func (m *LogMessenger) Send(ctx context.Context, msg Message) error {
	m.Logger.InfoContext(ctx, "message sent",
		"channel", msg.Channel,
		"target", msg.Target,
		"accountId", msg.AccountID,
		"text", msg.Text,
	)
	return nil
}
