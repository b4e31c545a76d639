package notify

import (
	"context"
)

// Message is one out-of-band message to a human or operator channel.
// Channel and Target come from the approval binding configuration;
// AccountID is optional and channel-specific.
type Message struct {
	Channel   string `json:"channel"`
	Target    string `json:"target"`
	AccountID string `json:"accountId,omitempty"`
	Text      string `json:"message"`
}

// Messenger delivers messages to an external messaging system. The
// human-approval node uses it to tell a human how to approve, reject and
// resume a suspended run.
type Messenger interface {
	Send(ctx context.Context, msg Message) error
}

// NopMessenger discards all messages. Useful for testing or when no
// messaging gateway is configured.
type NopMessenger struct{}

// Send implements Messenger.
func (NopMessenger) Send(ctx context.Context, msg Message) error {
	return nil
}
