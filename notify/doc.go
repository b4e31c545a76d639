// Package notify delivers out-of-band messages to humans and operators.
//
// Core types:
//   - Messenger: Interface for sending messages
//   - Message: Channel/target addressed message payload
//
// Implementations:
//   - WebhookMessenger: Posts messages to a messaging gateway as JSON
//   - LogMessenger: Logs messages (for testing/debugging)
//   - MultiMessenger: Fans out to multiple messengers
//   - NopMessenger: Discards messages
//
// Example usage:
//
//	messenger := notify.NewWebhookMessenger(gatewayURL,
//	    notify.WithHeader("Authorization", "Bearer "+token),
//	)
//	err := messenger.Send(ctx, notify.Message{
//	    Channel: "slack",
//	    Target:  "U123456",
//	    Text:    "Approval requested",
//	})
package notify
