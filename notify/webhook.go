package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookMessenger posts messages to a messaging gateway as JSON.
type WebhookMessenger struct {
	URL     string
	Headers map[string]string
	Client  *http.Client
}

// WebhookOption configures WebhookMessenger.
type WebhookOption func(*WebhookMessenger)

// WithHeader adds a header to every request (e.g. an auth token).
func WithHeader(key, value string) WebhookOption {
	return func(m *WebhookMessenger) {
		if m.Headers == nil {
			m.Headers = make(map[string]string)
		}
		m.Headers[key] = value
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(m *WebhookMessenger) { m.Client = client }
}

// NewWebhookMessenger creates a messenger posting to the given URL.
func NewWebhookMessenger(url string, opts ...WebhookOption) *WebhookMessenger {
	m := &WebhookMessenger{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send implements Messenger.
func (m *WebhookMessenger) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range m.Headers {
		req.Header.Set(k, v)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("messaging gateway returned %d", resp.StatusCode)
	}

	return nil
}
