// Package testutil provides fixtures and fakes for testing the run
// coordinator.
package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/randalmurphal/laneflow/agent"
	"github.com/randalmurphal/laneflow/notify"
)

// TeamDir scaffolds a temporary team directory with the shared-context
// layout and returns its path.
func TeamDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for _, sub := range []string{
		filepath.Join("shared-context", "workflows"),
		filepath.Join("shared-context", "prompts"),
	} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("scaffold team dir: %v", err)
		}
	}
	return dir
}

// WriteWorkflow marshals a workflow document into the team's workflows
// directory.
func WriteWorkflow(t *testing.T, teamDir, file string, def any) {
	t.Helper()

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		t.Fatalf("marshal workflow %s: %v", file, err)
	}
	path := filepath.Join(teamDir, "shared-context", "workflows", file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write workflow %s: %v", file, err)
	}
}

// WriteTeamFile writes a file at a team-relative path, creating parent
// directories.
func WriteTeamFile(t *testing.T, teamDir, rel, content string) string {
	t.Helper()

	path := filepath.Join(teamDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// SeedTicket drops a ticket file into a lane directory.
func SeedTicket(t *testing.T, teamDir, lane, name string) string {
	t.Helper()
	return WriteTeamFile(t, teamDir, filepath.Join("work", lane, name),
		"# "+name+"\n\nOwner: lead\nStatus: queued\n")
}

// FakeInvoker returns scripted output and records every request.
type FakeInvoker struct {
	mu       sync.Mutex
	Output   string
	Err      error
	Requests []agent.Request
}

// Invoke implements agent.Invoker.
func (f *FakeInvoker) Invoke(ctx context.Context, req agent.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)
	if f.Err != nil {
		return "", f.Err
	}
	if f.Output == "" {
		return "generated output", nil
	}
	return f.Output, nil
}

// Calls returns how many invocations the fake has seen.
func (f *FakeInvoker) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

// RecordingMessenger captures every message it is asked to send.
type RecordingMessenger struct {
	mu       sync.Mutex
	Err      error
	Messages []notify.Message
}

// Send implements notify.Messenger.
func (m *RecordingMessenger) Send(ctx context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// Sent returns how many messages the messenger has recorded.
func (m *RecordingMessenger) Sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages)
}
