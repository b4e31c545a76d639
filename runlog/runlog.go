package runlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/randalmurphal/laneflow/internal/jsonfile"
	"github.com/randalmurphal/laneflow/ticket"
)

// ErrNotFound indicates no run log exists for a run id.
var ErrNotFound = errors.New("run log not found")

// Status is the lifecycle state of a run.
type Status string

// Run statuses. Running is re-entered only via a successful resume after
// an approval decision.
const (
	StatusRunning          Status = "running"
	StatusAwaitingApproval Status = "awaiting_approval"
	StatusCompleted        Status = "completed"
	StatusRejected         Status = "rejected"
)

// Terminal reports whether a status ends the run.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// Event types appended to the run log.
const (
	EventRunCreated           = "run.created"
	EventTicketMoved          = "ticket.moved"
	EventNodeCompleted        = "node.completed"
	EventNodeAwaitingApproval = "node.awaiting_approval"
	EventNodeApproved         = "node.approved"
	EventNodeSkipped          = "node.skipped"
	EventRunCompleted         = "run.completed"
	EventRunRejected          = "run.rejected"
)

// WorkflowRef identifies the workflow document a run was created from.
type WorkflowRef struct {
	File string `json:"file"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// TicketRef is the live pointer to the run's ticket. It is mutated on
// every lane move, always together with a ticket.moved event.
type TicketRef struct {
	File   string      `json:"file"` // team-relative path
	Number string      `json:"number"`
	Lane   ticket.Lane `json:"lane"`
}

// Trigger records what started the run.
type Trigger struct {
	Kind string `json:"kind"`
	At   string `json:"at,omitempty"`
}

// Event is one append-only history entry.
type Event struct {
	TS             string      `json:"ts"`
	Type           string      `json:"type"`
	Lane           ticket.Lane `json:"lane,omitempty"`
	NodeID         string      `json:"nodeId,omitempty"`
	Kind           string      `json:"kind,omitempty"`
	BindingID      string      `json:"bindingId,omitempty"`
	ApprovalFile   string      `json:"approvalFile,omitempty"`
	OutputPath     string      `json:"outputPath,omitempty"`
	WritebackPaths []string    `json:"writebackPaths,omitempty"`
	Reason         string      `json:"reason,omitempty"`
}

// NodeResult is one append-only entry per completed, suspended or skipped
// node.
type NodeResult struct {
	NodeID            string   `json:"nodeId"`
	Kind              string   `json:"kind"`
	AgentID           string   `json:"agentId,omitempty"`
	OutputPath        string   `json:"outputPath,omitempty"`
	Bytes             int      `json:"bytes,omitempty"`
	ApprovalBindingID string   `json:"approvalBindingId,omitempty"`
	ApprovalFile      string   `json:"approvalFile,omitempty"`
	WritebackPaths    []string `json:"writebackPaths,omitempty"`
	Skipped           bool     `json:"skipped,omitempty"`
	Reason            string   `json:"reason,omitempty"`
}

// RunLog is the JSON document tracking one run. Events are append-only;
// Status and Ticket are mutable pointers updated together with the event
// describing the transition.
type RunLog struct {
	RunID       string       `json:"runId"`
	CreatedAt   string       `json:"createdAt"`
	TeamID      string       `json:"teamId"`
	Workflow    WorkflowRef  `json:"workflow"`
	Ticket      TicketRef    `json:"ticket"`
	Trigger     Trigger      `json:"trigger"`
	Status      Status       `json:"status"`
	Events      []Event      `json:"events"`
	NodeResults []NodeResult `json:"nodeResults"`
}

// Dir returns the run log directory for a team.
func Dir(teamDir string) string {
	return filepath.Join(teamDir, "shared-context", "workflow-runs")
}

// Path returns the run log path for a run id.
func Path(teamDir, runID string) string {
	return filepath.Join(Dir(teamDir), runID+".json")
}

// Create writes the initial run log document.
func Create(path string, log *RunLog) error {
	if log.NodeResults == nil {
		log.NodeResults = []NodeResult{}
	}
	if err := jsonfile.Write(path, log); err != nil {
		return fmt.Errorf("create run log: %w", err)
	}
	return nil
}

// Read loads the run log at path. Returns ErrNotFound when no document
// exists.
func Read(path string) (*RunLog, error) {
	var log RunLog
	if err := jsonfile.Read(path, &log); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return &log, nil
}

// Append applies mutate to the full current document and atomically
// rewrites it. Every call is a complete replace, never a partial patch.
// Concurrent appenders to the same run are not supported; a single
// controller owns a run's log at any time.
func Append(path string, mutate func(*RunLog)) error {
	log, err := Read(path)
	if err != nil {
		return err
	}
	mutate(log)
	if err := jsonfile.Write(path, log); err != nil {
		return fmt.Errorf("append run log: %w", err)
	}
	return nil
}
