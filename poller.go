package laneflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/randalmurphal/laneflow/approval"
)

// Poll actions recorded per approval file.
const (
	PollActionResumed = "resumed"
	PollActionSkipped = "skipped"
	PollActionError   = "error"
)

// PollOutcome describes what a sweep did with one approval file.
type PollOutcome struct {
	RunID   string `json:"runId"`
	Status  string `json:"status"`
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
}

// PollResult summarizes one sweep over a team's approval directory.
type PollResult struct {
	TeamID  string        `json:"teamId"`
	Polled  int           `json:"polled"`
	Resumed int           `json:"resumed"`
	Skipped int           `json:"skipped"`
	Message string        `json:"message,omitempty"`
	Results []PollOutcome `json:"results,omitempty"`
}

// PollApprovals sweeps the team's approval directory and resumes every
// run whose approval has been decided. Malformed records and pending
// approvals are skipped, as is anything already carrying a resumedAt
// stamp, so re-running the sweep never double-resumes a run. A positive
// limit caps how many files one sweep examines.
func (r *Runner) PollApprovals(ctx context.Context, limit int) (*PollResult, error) {
	res := &PollResult{TeamID: r.teamID}

	approvalsDir := approval.Dir(r.teamDir)
	entries, err := os.ReadDir(approvalsDir)
	if err != nil {
		if os.IsNotExist(err) {
			res.Message = "no approvals directory present"
			return res, nil
		}
		return nil, fmt.Errorf("scan approvals: %w", err)
	}

	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	res.Polled = len(files)

	for _, f := range files {
		runID := strings.TrimSuffix(f, ".json")
		rec, err := approval.ReadPath(filepath.Join(approvalsDir, f))
		if err != nil {
			res.Skipped++
			res.Results = append(res.Results, PollOutcome{
				RunID:   runID,
				Status:  "unknown",
				Action:  PollActionError,
				Message: fmt.Sprintf("failed to parse: %v", err),
			})
			continue
		}

		if rec.Status == approval.StatusPending {
			res.Skipped++
			res.Results = append(res.Results, PollOutcome{
				RunID:  rec.RunID,
				Status: string(rec.Status),
				Action: PollActionSkipped,
			})
			continue
		}

		if rec.ResumedAt != "" {
			res.Skipped++
			res.Results = append(res.Results, PollOutcome{
				RunID:   rec.RunID,
				Status:  string(rec.Status),
				Action:  PollActionSkipped,
				Message: "already resumed",
			})
			continue
		}

		out, err := r.Resume(ctx, rec.RunID)
		if err != nil {
			res.Results = append(res.Results, PollOutcome{
				RunID:   rec.RunID,
				Status:  string(rec.Status),
				Action:  PollActionError,
				Message: err.Error(),
			})
			// Resume stamps consumed decisions itself; stamp here too so
			// failures before the consume step do not retry forever.
			if stampErr := approval.MarkResumeFailed(r.teamDir, rec.RunID, err.Error()); stampErr != nil {
				r.logger.Warn("approval resume stamp failed", "runId", rec.RunID, "error", stampErr)
			}
			continue
		}

		res.Resumed++
		res.Results = append(res.Results, PollOutcome{
			RunID:   rec.RunID,
			Status:  string(rec.Status),
			Action:  PollActionResumed,
			Message: "resume status=" + string(out.Status),
		})
	}

	r.logger.Info("approvals polled",
		"teamId", r.teamID, "polled", res.Polled, "resumed", res.Resumed, "skipped", res.Skipped)
	return res, nil
}
