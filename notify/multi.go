package notify

import (
	"context"
	"log/slog"
)

// MultiMessenger sends each message through multiple messengers.
// Errors from individual messengers are logged but don't stop the others;
// the last error, if any, is returned.
type MultiMessenger struct {
	Messengers []Messenger
	Logger     *slog.Logger
}

// NewMultiMessenger creates a messenger that fans out to the given
// messengers.
func NewMultiMessenger(messengers ...Messenger) *MultiMessenger {
	return &MultiMessenger{
		Messengers: messengers,
		Logger:     slog.Default(),
	}
}

// Send implements Messenger.
func (m *MultiMessenger) Send(ctx context.Context, msg Message) error {
	var lastErr error
	for _, messenger := range m.Messengers {
		if err := messenger.Send(ctx, msg); err != nil {
			lastErr = err
			if m.Logger != nil {
				m.Logger.Warn("messenger failed",
					"error", err,
					"channel", msg.Channel,
				)
			}
		}
	}
	return lastErr
}
