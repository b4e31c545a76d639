package approval

import (
	"errors"
	"strings"
	"testing"
)

func create(t *testing.T, teamDir string) *Record {
	t.Helper()
	rec := &Record{
		RunID:        "2026-01-02T03-04-05-abcdef01",
		TeamID:       "platform",
		WorkflowFile: "release.json",
		NodeID:       "gate",
		BindingID:    "lead-dm",
		Ticket:       "work/backlog/0001-workflow-run-release.md",
		RunLog:       "shared-context/workflow-runs/2026-01-02T03-04-05-abcdef01.json",
	}
	if _, err := Create(teamDir, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return rec
}

func TestCreate_ForcesPending(t *testing.T) {
	teamDir := t.TempDir()
	rec := &Record{RunID: "run-1", Status: StatusApproved}
	if _, err := Create(teamDir, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := Read(teamDir, "run-1")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Status != StatusPending {
		t.Errorf("Status = %q, want %q", got.Status, StatusPending)
	}
	if got.RequestedAt == "" {
		t.Error("RequestedAt not stamped")
	}
}

func TestRead_NotFound(t *testing.T) {
	_, err := Read(t.TempDir(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDecide(t *testing.T) {
	teamDir := t.TempDir()
	rec := create(t, teamDir)

	decided, err := Decide(teamDir, rec.RunID, true, "ship it")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != StatusApproved {
		t.Errorf("Status = %q", decided.Status)
	}
	if decided.DecidedAt == "" {
		t.Error("DecidedAt not stamped")
	}
	if decided.Note != "ship it" {
		t.Errorf("Note = %q", decided.Note)
	}
}

func TestDecide_LastWriterWins(t *testing.T) {
	teamDir := t.TempDir()
	rec := create(t, teamDir)

	if _, err := Decide(teamDir, rec.RunID, true, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if _, err := Decide(teamDir, rec.RunID, false, "changed my mind"); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	got, err := Read(teamDir, rec.RunID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Status != StatusRejected {
		t.Errorf("Status = %q, want %q", got.Status, StatusRejected)
	}
}

func TestDecide_MissingRecord(t *testing.T) {
	_, err := Decide(t.TempDir(), "missing", true, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckDecided(t *testing.T) {
	teamDir := t.TempDir()
	rec := create(t, teamDir)

	err := rec.CheckDecided(teamDir)
	if !errors.Is(err, ErrStillPending) {
		t.Fatalf("expected ErrStillPending, got %v", err)
	}
	if !strings.Contains(err.Error(), Path(teamDir, rec.RunID)) {
		t.Errorf("error does not name the record file: %v", err)
	}

	decided, err := Decide(teamDir, rec.RunID, false, "")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if err := decided.CheckDecided(teamDir); err != nil {
		t.Errorf("CheckDecided after decision: %v", err)
	}
}

func TestMarkResumed(t *testing.T) {
	teamDir := t.TempDir()
	rec := create(t, teamDir)

	if err := MarkResumed(teamDir, rec.RunID, "completed"); err != nil {
		t.Fatalf("MarkResumed: %v", err)
	}

	got, err := Read(teamDir, rec.RunID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.ResumedAt == "" {
		t.Error("ResumedAt not stamped")
	}
	if got.ResumedStatus != "completed" {
		t.Errorf("ResumedStatus = %q", got.ResumedStatus)
	}
	if got.ResumeError != "" {
		t.Errorf("ResumeError = %q", got.ResumeError)
	}
}

func TestMarkResumeFailed(t *testing.T) {
	teamDir := t.TempDir()
	rec := create(t, teamDir)

	if err := MarkResumeFailed(teamDir, rec.RunID, "agent timed out"); err != nil {
		t.Fatalf("MarkResumeFailed: %v", err)
	}

	got, err := Read(teamDir, rec.RunID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.ResumedStatus != "error" {
		t.Errorf("ResumedStatus = %q", got.ResumedStatus)
	}
	if got.ResumeError != "agent timed out" {
		t.Errorf("ResumeError = %q", got.ResumeError)
	}
}
