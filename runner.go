package laneflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/laneflow/agent"
	"github.com/randalmurphal/laneflow/approval"
	"github.com/randalmurphal/laneflow/config"
	"github.com/randalmurphal/laneflow/notify"
	"github.com/randalmurphal/laneflow/runlog"
	"github.com/randalmurphal/laneflow/ticket"
	"github.com/randalmurphal/laneflow/workflow"
)

// Runner errors.
var (
	// ErrNotAwaitingApproval indicates a resume call on a run that is not
	// suspended at an approval gate.
	ErrNotAwaitingApproval = errors.New("run is not awaiting approval")

	// ErrApprovalNodeNotFound indicates the approval record references a
	// node id that is no longer in the workflow definition.
	ErrApprovalNodeNotFound = errors.New("approval node not found in workflow")
)

// RunnerConfig wires a Runner's collaborators. Invoker and Messenger are
// required for workflows using llm and human_approval nodes respectively;
// Bindings must resolve every approvalBindingId those workflows declare.
type RunnerConfig struct {
	TeamID    string
	TeamDir   string
	Invoker   agent.Invoker
	Messenger notify.Messenger
	Bindings  *config.Bindings
	Logger    *slog.Logger
}

// Runner drives workflow runs for one team: it creates tickets and run
// logs, executes the node loop, suspends at approval gates and resumes
// decided runs.
//
// A per-run mutex guarantees at most one in-flight Start/Resume per run
// id within this process. Cross-process concurrent writers to the same
// run log, approval file or ticket numbering are unsupported; run at most
// one Runner per team directory.
type Runner struct {
	teamID    string
	teamDir   string
	invoker   agent.Invoker
	messenger notify.Messenger
	bindings  *config.Bindings
	logger    *slog.Logger

	mu       sync.Mutex
	runLocks map[string]*sync.Mutex
}

// NewRunner creates a Runner for a team directory.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.TeamID == "" {
		return nil, fmt.Errorf("team id required")
	}
	if cfg.TeamDir == "" {
		return nil, fmt.Errorf("team dir required")
	}
	messenger := cfg.Messenger
	if messenger == nil {
		messenger = notify.NopMessenger{}
	}
	bindings := cfg.Bindings
	if bindings == nil {
		bindings = &config.Bindings{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		teamID:    cfg.TeamID,
		teamDir:   cfg.TeamDir,
		invoker:   cfg.Invoker,
		messenger: messenger,
		bindings:  bindings,
		logger:    logger,
		runLocks:  make(map[string]*sync.Mutex),
	}, nil
}

// TeamDir returns the team directory the runner operates on.
func (r *Runner) TeamDir() string { return r.teamDir }

// runLock returns the mutex serializing Start/Resume for a run id.
func (r *Runner) runLock(runID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.runLocks[runID]
	if !ok {
		lock = &sync.Mutex{}
		r.runLocks[runID] = lock
	}
	return lock
}

// RunResult summarizes the outcome of a Start or Resume call.
type RunResult struct {
	RunID      string
	RunLogPath string
	TicketPath string
	Lane       ticket.Lane
	Status     runlog.Status
	Message    string
}

// Start instantiates a workflow into a new run: it assigns the next
// ticket number, writes the initial ticket and run log, and drives the
// node loop from index 0. A nil trigger is recorded as manual.
//
// A node error propagates to the caller; the run log keeps the last
// successfully appended event and the run is not marked failed. Operators
// re-trigger via Resume or a fresh run.
func (r *Runner) Start(ctx context.Context, workflowFile string, trigger *runlog.Trigger) (*RunResult, error) {
	def, err := workflow.Load(r.teamDir, workflowFile)
	if err != nil {
		return nil, err
	}

	initialLane, err := def.InitialLane()
	if err != nil {
		return nil, err
	}

	runID, err := newRunID()
	if err != nil {
		return nil, err
	}

	lock := r.runLock(runID)
	lock.Lock()
	defer lock.Unlock()

	num, err := ticket.NextNumber(r.teamDir)
	if err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	if trigger == nil {
		trigger = &runlog.Trigger{Kind: "manual"}
	}

	runLogPath := runlog.Path(r.teamDir, runID)
	ticketPath, err := ticket.New(r.teamDir, ticket.Params{
		Number:       num,
		Slug:         ticket.Slug(def.SlugSource(workflowFile)),
		WorkflowName: def.DisplayName(workflowFile),
		WorkflowFile: filepath.Join("shared-context", "workflows", workflowFile),
		RunID:        runID,
		RunLogFile:   r.rel(runLogPath),
		TriggerKind:  trigger.Kind,
		TriggerAt:    trigger.At,
		Lane:         initialLane,
	})
	if err != nil {
		return nil, err
	}

	if err := runlog.Create(runLogPath, &runlog.RunLog{
		RunID:     runID,
		CreatedAt: createdAt,
		TeamID:    r.teamID,
		Workflow:  runlog.WorkflowRef{File: workflowFile, ID: def.ID, Name: def.Name},
		Ticket:    runlog.TicketRef{File: r.rel(ticketPath), Number: num, Lane: initialLane},
		Trigger:   *trigger,
		Status:    runlog.StatusRunning,
		Events:    []runlog.Event{{TS: createdAt, Type: runlog.EventRunCreated, Lane: initialLane}},
	}); err != nil {
		return nil, err
	}

	r.logger.Info("run created",
		"runId", runID, "workflow", workflowFile, "ticket", r.rel(ticketPath), "lane", initialLane)

	out, err := r.executeNodes(ctx, execParams{
		def:          def,
		workflowFile: workflowFile,
		runID:        runID,
		runLogPath:   runLogPath,
		ticketPath:   ticketPath,
		lane:         initialLane,
	})
	if err != nil {
		return nil, err
	}

	return &RunResult{
		RunID:      runID,
		RunLogPath: runLogPath,
		TicketPath: out.ticketPath,
		Lane:       out.lane,
		Status:     out.status,
	}, nil
}

// Approve records an approval decision for a suspended run. It does not
// resume the run; call Resume or let the poller pick it up.
func (r *Runner) Approve(ctx context.Context, runID string, approved bool, note string) (*approval.Record, error) {
	rec, err := approval.Decide(r.teamDir, runID, approved, note)
	if err != nil {
		return nil, err
	}
	r.logger.Info("approval decided", "runId", runID, "status", rec.Status)
	return rec, nil
}

// Resume re-enters the node loop of a suspended run. The outcome ladder:
//
//   - missing run log: error
//   - already completed/rejected: no-op, returns the stored status
//   - any other non-suspended status: ErrNotAwaitingApproval
//   - approval still pending: approval.ErrStillPending, no mutation
//   - rejected decision: ticket to done, run rejected, no further nodes
//   - approved decision: loop continues at the node after the gate
//
// Resume is computed purely from the run log, approval record and
// workflow definition on disk; no in-memory run state is consulted. After
// reacting to the decision the approval record is stamped with the
// resume outcome, which is what keeps poll sweeps idempotent.
func (r *Runner) Resume(ctx context.Context, runID string) (*RunResult, error) {
	lock := r.runLock(runID)
	lock.Lock()
	defer lock.Unlock()

	runLogPath := runlog.Path(r.teamDir, runID)
	log, err := runlog.Read(runLogPath)
	if err != nil {
		return nil, err
	}

	if log.Status.Terminal() {
		return &RunResult{
			RunID:      runID,
			RunLogPath: runLogPath,
			TicketPath: filepath.Join(r.teamDir, log.Ticket.File),
			Lane:       log.Ticket.Lane,
			Status:     log.Status,
			Message:    "no-op; run already finished",
		}, nil
	}
	if log.Status != runlog.StatusAwaitingApproval {
		return nil, fmt.Errorf("%w (status=%s)", ErrNotAwaitingApproval, log.Status)
	}

	def, err := workflow.Load(r.teamDir, log.Workflow.File)
	if err != nil {
		return nil, err
	}

	rec, err := approval.Read(r.teamDir, runID)
	if err != nil {
		return nil, err
	}
	if err := rec.CheckDecided(r.teamDir); err != nil {
		return nil, err
	}

	idx := def.NodeIndex(rec.NodeID, workflow.KindHumanApproval)
	if idx < 0 {
		return nil, fmt.Errorf("%w: nodeId=%s", ErrApprovalNodeNotFound, rec.NodeID)
	}

	ticketPath := filepath.Join(r.teamDir, log.Ticket.File)

	if rec.Status == approval.StatusRejected {
		res, err := r.rejectRun(runID, runLogPath, ticketPath, rec.NodeID)
		if err != nil {
			return nil, err
		}
		if err := approval.MarkResumed(r.teamDir, runID, string(res.Status)); err != nil {
			r.logger.Warn("approval resume stamp failed", "runId", runID, "error", err)
		}
		return res, nil
	}

	if err := runlog.Append(runLogPath, func(cur *runlog.RunLog) {
		cur.Status = runlog.StatusRunning
		cur.Events = append(cur.Events, runlog.Event{
			TS:     time.Now().UTC().Format(time.RFC3339),
			Type:   runlog.EventNodeApproved,
			NodeID: rec.NodeID,
		})
	}); err != nil {
		return nil, err
	}

	r.logger.Info("run resumed", "runId", runID, "startIndex", idx+1)

	out, err := r.executeNodes(ctx, execParams{
		def:          def,
		workflowFile: log.Workflow.File,
		runID:        runID,
		runLogPath:   runLogPath,
		ticketPath:   ticketPath,
		lane:         log.Ticket.Lane,
		startIndex:   idx + 1,
	})
	if err != nil {
		if stampErr := approval.MarkResumeFailed(r.teamDir, runID, err.Error()); stampErr != nil {
			r.logger.Warn("approval resume stamp failed", "runId", runID, "error", stampErr)
		}
		return nil, err
	}

	if err := approval.MarkResumed(r.teamDir, runID, string(out.status)); err != nil {
		r.logger.Warn("approval resume stamp failed", "runId", runID, "error", err)
	}

	return &RunResult{
		RunID:      runID,
		RunLogPath: runLogPath,
		TicketPath: out.ticketPath,
		Lane:       out.lane,
		Status:     out.status,
	}, nil
}

// rejectRun routes a rejected run's ticket to done and marks the run
// rejected. No further nodes execute.
func (r *Runner) rejectRun(runID, runLogPath, ticketPath, nodeID string) (*RunResult, error) {
	moved, err := ticket.Move(r.teamDir, ticketPath, ticket.Done, r.logger)
	if err != nil {
		return nil, err
	}
	if err := runlog.Append(runLogPath, func(cur *runlog.RunLog) {
		cur.Status = runlog.StatusRejected
		cur.Ticket.File = r.rel(moved)
		cur.Ticket.Lane = ticket.Done
		cur.Events = append(cur.Events, runlog.Event{
			TS:     time.Now().UTC().Format(time.RFC3339),
			Type:   runlog.EventRunRejected,
			NodeID: nodeID,
		})
	}); err != nil {
		return nil, err
	}
	r.logger.Info("run rejected", "runId", runID)
	return &RunResult{
		RunID:      runID,
		RunLogPath: runLogPath,
		TicketPath: moved,
		Lane:       ticket.Done,
		Status:     runlog.StatusRejected,
	}, nil
}

// rel returns a path relative to the team dir for run log and ticket
// pointers; absolute paths never appear inside the on-disk documents.
func (r *Runner) rel(path string) string {
	rel, err := filepath.Rel(r.teamDir, path)
	if err != nil {
		return path
	}
	return rel
}

// runIDAlphabet keeps run ids filename-safe.
const runIDAlphabet = "0123456789abcdef"

// newRunID builds a timestamp-plus-random run id, collision-resistant by
// construction and sortable by creation time.
func newRunID() (string, error) {
	suffix, err := nanoid.Generate(runIDAlphabet, 8)
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	ts := time.Now().UTC().Format("2006-01-02T15-04-05")
	return ts + "-" + suffix, nil
}
