package ticket

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Params describes the ticket document written at run creation.
type Params struct {
	Number       string // 4-digit sequence number
	Slug         string // filename slug, without number prefix
	WorkflowName string // display name for the heading
	WorkflowFile string // team-relative workflow path
	RunID        string
	RunLogFile   string // team-relative run log path
	TriggerKind  string
	TriggerAt    string
	Lane         Lane
	Owner        string // defaults to "lead"
}

// Filename returns the ticket basename for the params.
func (p Params) Filename() string {
	return fmt.Sprintf("%s-workflow-run-%s.md", p.Number, p.Slug)
}

// Render produces the initial ticket markdown document.
func Render(p Params) string {
	owner := p.Owner
	if owner == "" {
		owner = "lead"
	}
	trigger := p.TriggerKind
	if p.TriggerAt != "" {
		trigger += " @ " + p.TriggerAt
	}

	lines := []string{
		fmt.Sprintf("# %s - Workflow run: %s", p.Number, p.WorkflowName),
		"",
		"Owner: " + owner,
		"Status: " + p.Lane.Status(),
		"",
		"## Run",
		"- workflow: " + p.WorkflowFile,
		"- run log: " + p.RunLogFile,
		"- trigger: " + trigger,
		"- runId: " + p.RunID,
		"",
		"## Notes",
		"- Created by: laneflow workflow run",
		"",
	}
	return strings.Join(lines, "\n")
}

// New writes the initial ticket document into its lane directory and
// returns the ticket path. The lane directory is created if absent.
func New(teamDir string, p Params) (string, error) {
	laneDir := Dir(teamDir, p.Lane)
	if err := os.MkdirAll(laneDir, 0o755); err != nil {
		return "", fmt.Errorf("create lane dir %s: %w", p.Lane, err)
	}
	path := filepath.Join(laneDir, p.Filename())
	if err := os.WriteFile(path, []byte(Render(p)), 0o644); err != nil {
		return "", fmt.Errorf("write ticket: %w", err)
	}
	return path, nil
}
