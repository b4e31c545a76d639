package ticket

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func seed(t *testing.T, teamDir string, lane Lane, name, content string) string {
	t.Helper()
	dir := Dir(teamDir, lane)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestParseLane(t *testing.T) {
	for _, lane := range Lanes {
		got, err := ParseLane(string(lane))
		if err != nil {
			t.Errorf("ParseLane(%q): %v", lane, err)
		}
		if got != lane {
			t.Errorf("ParseLane(%q) = %q", lane, got)
		}
	}

	if _, err := ParseLane("archived"); err == nil {
		t.Error("expected error for invalid lane")
	}
}

func TestLaneStatus(t *testing.T) {
	tests := []struct {
		lane Lane
		want string
	}{
		{Backlog, "queued"},
		{InProgress, "in-progress"},
		{Testing, "testing"},
		{Done, "done"},
	}
	for _, tt := range tests {
		if got := tt.lane.Status(); got != tt.want {
			t.Errorf("%s.Status() = %q, want %q", tt.lane, got, tt.want)
		}
	}
}

func TestNextNumber_EmptyTeam(t *testing.T) {
	got, err := NextNumber(t.TempDir())
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if got != "0001" {
		t.Errorf("NextNumber = %q, want %q", got, "0001")
	}
}

func TestNextNumber_SkipsGaps(t *testing.T) {
	teamDir := t.TempDir()
	seed(t, teamDir, Backlog, "0001-first.md", "# 0001\n")
	seed(t, teamDir, Done, "0003-third.md", "# 0003\n")
	seed(t, teamDir, Testing, "notes.md", "not a ticket\n")

	got, err := NextNumber(teamDir)
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if got != "0004" {
		t.Errorf("NextNumber = %q, want %q", got, "0004")
	}
}

func TestMove_KeepsBasename(t *testing.T) {
	teamDir := t.TempDir()
	src := seed(t, teamDir, Backlog, "0002-feature.md",
		"# 0002 - Feature\n\nOwner: lead\nStatus: queued\n")

	dest, err := Move(teamDir, src, InProgress, nil)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}

	if filepath.Base(dest) != "0002-feature.md" {
		t.Errorf("basename changed: %s", filepath.Base(dest))
	}
	if Number(dest) != "0002" {
		t.Errorf("Number = %q, want %q", Number(dest), "0002")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file should be gone after move")
	}

	md, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read moved ticket: %v", err)
	}
	if !strings.Contains(string(md), "Status: in-progress") {
		t.Errorf("Status line not patched:\n%s", md)
	}
}

func TestMove_SameLaneIsNoop(t *testing.T) {
	teamDir := t.TempDir()
	src := seed(t, teamDir, Testing, "0005-check.md",
		"# 0005 - Check\n\nStatus: testing\n")

	dest, err := Move(teamDir, src, Testing, nil)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if dest != src {
		t.Errorf("dest = %q, want %q", dest, src)
	}
}

func TestMove_MissingStatusLineIsNotFatal(t *testing.T) {
	teamDir := t.TempDir()
	src := seed(t, teamDir, Backlog, "0007-bare.md", "# 0007 - Bare\n\nno fields here\n")

	if _, err := Move(teamDir, src, Done, nil); err != nil {
		t.Fatalf("Move: %v", err)
	}
}

func TestPatchFields_ReplacesExisting(t *testing.T) {
	md := "# 0001 - Ticket\n\nOwner: lead\nStatus: queued\n\nbody\n"
	got := PatchFields(md, "dev", "in-progress")

	if !strings.Contains(got, "Owner: dev") {
		t.Errorf("owner not patched:\n%s", got)
	}
	if !strings.Contains(got, "Status: in-progress") {
		t.Errorf("status not patched:\n%s", got)
	}
	if strings.Contains(got, "Owner: lead") || strings.Contains(got, "Status: queued") {
		t.Errorf("old fields remain:\n%s", got)
	}
}

func TestPatchFields_InsertsAfterHeading(t *testing.T) {
	md := "# 0001 - Ticket\n\nbody\n"
	got := PatchFields(md, "dev", "testing")

	if !strings.Contains(got, "Owner: dev") || !strings.Contains(got, "Status: testing") {
		t.Errorf("fields not inserted:\n%s", got)
	}
	if !strings.HasPrefix(got, "# 0001 - Ticket\n") {
		t.Errorf("heading disturbed:\n%s", got)
	}
}

func TestPatchFields_Idempotent(t *testing.T) {
	md := "# 0001 - Ticket\n\nOwner: lead\nStatus: queued\n"
	once := PatchFields(md, "dev", "done")
	twice := PatchFields(once, "dev", "done")

	if once != twice {
		t.Errorf("not idempotent:\nonce:\n%s\ntwice:\n%s", once, twice)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Release Notes v2", "release-notes-v2"},
		{"already-a-slug", "already-a-slug"},
		{"--Weird__Name--", "weird-name"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_WritesTicketInLane(t *testing.T) {
	teamDir := t.TempDir()
	path, err := New(teamDir, Params{
		Number:       "0001",
		Slug:         "release-notes",
		WorkflowName: "Release Notes",
		WorkflowFile: "shared-context/workflows/release-notes.json",
		RunID:        "run-1",
		RunLogFile:   "shared-context/workflow-runs/run-1.json",
		TriggerKind:  "manual",
		Lane:         InProgress,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if filepath.Dir(path) != Dir(teamDir, InProgress) {
		t.Errorf("ticket created in %s, want lane %s", filepath.Dir(path), InProgress)
	}

	md, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ticket: %v", err)
	}
	for _, want := range []string{
		"# 0001 - Workflow run: Release Notes",
		"Owner: lead",
		"Status: in-progress",
		"- runId: run-1",
	} {
		if !strings.Contains(string(md), want) {
			t.Errorf("ticket missing %q:\n%s", want, md)
		}
	}
}
