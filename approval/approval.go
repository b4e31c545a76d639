package approval

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/randalmurphal/laneflow/internal/jsonfile"
)

var (
	// ErrNotFound indicates no approval record exists for a run id.
	ErrNotFound = errors.New("approval record not found")

	// ErrStillPending indicates an approval that has not been decided yet.
	// Resume must not proceed without a decision.
	ErrStillPending = errors.New("approval still pending")
)

// Status is the decision state of an approval record.
type Status string

// Approval statuses.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Record is the JSON document written while a human-approval node is
// outstanding. It is created pending by the node executor, decided
// exactly once by an external action, and stamped with resume bookkeeping
// when consumed.
type Record struct {
	RunID         string `json:"runId"`
	TeamID        string `json:"teamId"`
	WorkflowFile  string `json:"workflowFile"`
	NodeID        string `json:"nodeId"`
	BindingID     string `json:"bindingId"`
	RequestedAt   string `json:"requestedAt"`
	Status        Status `json:"status"`
	DecidedAt     string `json:"decidedAt,omitempty"`
	Ticket        string `json:"ticket"` // team-relative ticket path
	RunLog        string `json:"runLog"` // team-relative run log path
	Note          string `json:"note,omitempty"`
	ResumedAt     string `json:"resumedAt,omitempty"`
	ResumedStatus string `json:"resumedStatus,omitempty"`
	ResumeError   string `json:"resumeError,omitempty"`
}

// Dir returns the approvals directory for a team.
func Dir(teamDir string) string {
	return filepath.Join(teamDir, "shared-context", "workflow-approvals")
}

// Path returns the approval record path for a run id.
func Path(teamDir, runID string) string {
	return filepath.Join(Dir(teamDir), runID+".json")
}

// Create writes a new pending approval record for the run.
func Create(teamDir string, rec *Record) (string, error) {
	rec.Status = StatusPending
	if rec.RequestedAt == "" {
		rec.RequestedAt = time.Now().UTC().Format(time.RFC3339)
	}
	path := Path(teamDir, rec.RunID)
	if err := jsonfile.Write(path, rec); err != nil {
		return "", fmt.Errorf("create approval record: %w", err)
	}
	return path, nil
}

// Read loads the approval record for a run. Returns ErrNotFound when no
// record exists.
func Read(teamDir, runID string) (*Record, error) {
	return ReadPath(Path(teamDir, runID))
}

// ReadPath loads an approval record from an explicit path.
func ReadPath(path string) (*Record, error) {
	var rec Record
	if err := jsonfile.Read(path, &rec); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return &rec, nil
}

// Decide records an approval decision. The record must exist. Calling
// twice overwrites the previous decision; the last call wins, an accepted
// race given the external, human-paced nature of the decision.
func Decide(teamDir, runID string, approved bool, note string) (*Record, error) {
	rec, err := Read(teamDir, runID)
	if err != nil {
		return nil, err
	}
	if approved {
		rec.Status = StatusApproved
	} else {
		rec.Status = StatusRejected
	}
	rec.DecidedAt = time.Now().UTC().Format(time.RFC3339)
	if note != "" {
		rec.Note = note
	}
	if err := jsonfile.Write(Path(teamDir, runID), rec); err != nil {
		return nil, fmt.Errorf("record decision: %w", err)
	}
	return rec, nil
}

// CheckDecided returns ErrStillPending when the record has not been
// decided, naming the file the operator must update.
func (r *Record) CheckDecided(teamDir string) error {
	if r.Status == StatusPending {
		return fmt.Errorf("%w: update %s first", ErrStillPending, Path(teamDir, r.RunID))
	}
	return nil
}

// MarkResumed stamps the record after the controller has consumed the
// decision. Re-running a poll sweep never double-resumes a record with a
// ResumedAt stamp; the guard is best-effort, not atomically guaranteed.
func MarkResumed(teamDir, runID, resumedStatus string) error {
	return stampResume(teamDir, runID, resumedStatus, "")
}

// MarkResumeFailed stamps the record when the resume attempt failed after
// the decision was consumed.
func MarkResumeFailed(teamDir, runID, resumeErr string) error {
	return stampResume(teamDir, runID, "error", resumeErr)
}

func stampResume(teamDir, runID, resumedStatus, resumeErr string) error {
	rec, err := Read(teamDir, runID)
	if err != nil {
		return err
	}
	rec.ResumedAt = time.Now().UTC().Format(time.RFC3339)
	rec.ResumedStatus = resumedStatus
	rec.ResumeError = resumeErr
	if err := jsonfile.Write(Path(teamDir, runID), rec); err != nil {
		return fmt.Errorf("stamp resume: %w", err)
	}
	return nil
}
