package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestWebhookMessenger_Send(t *testing.T) {
	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewWebhookMessenger(srv.URL, WithHeader("Authorization", "Bearer tok"))
	err := m.Send(context.Background(), Message{
		Channel: "telegram",
		Target:  "12345",
		Text:    "approval requested",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Channel != "telegram" || got.Text != "approval requested" {
		t.Errorf("gateway received %+v", got)
	}
	if auth != "Bearer tok" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestWebhookMessenger_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := NewWebhookMessenger(srv.URL)
	if err := m.Send(context.Background(), Message{Channel: "slack"}); err == nil {
		t.Error("expected error for 5xx response")
	}
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeMessenger) Send(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestMultiMessenger_FansOut(t *testing.T) {
	a := &fakeMessenger{}
	b := &fakeMessenger{}

	m := NewMultiMessenger(a, b)
	if err := m.Send(context.Background(), Message{Text: "hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(a.sent) != 1 || len(b.sent) != 1 {
		t.Errorf("fan-out incomplete: a=%d b=%d", len(a.sent), len(b.sent))
	}
}

func TestMultiMessenger_ContinuesPastFailure(t *testing.T) {
	boom := errors.New("boom")
	a := &fakeMessenger{err: boom}
	b := &fakeMessenger{}

	m := NewMultiMessenger(a, b)
	err := m.Send(context.Background(), Message{Text: "hi"})
	if !errors.Is(err, boom) {
		t.Errorf("expected failing messenger's error, got %v", err)
	}
	if len(b.sent) != 1 {
		t.Error("second messenger should still receive the message")
	}
}

func TestNopMessenger(t *testing.T) {
	if err := (NopMessenger{}).Send(context.Background(), Message{}); err != nil {
		t.Errorf("Send: %v", err)
	}
}
