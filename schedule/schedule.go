// Package schedule starts workflow runs from declared cron triggers.
//
// Workflow documents may declare triggers:
//
//	"triggers": [{"kind": "cron", "cron": "0 9 * * 1", "tz": "Europe/Berlin"}]
//
// A Scheduler registers every cron trigger of the workflows it is given
// and calls the Runner on schedule. Jobs for one team run serially: run
// creation races on the ticket number sequence, so the scheduler never
// fires two runs concurrently.
package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	laneflow "github.com/randalmurphal/laneflow"
	"github.com/randalmurphal/laneflow/runlog"
	"github.com/randalmurphal/laneflow/workflow"
)

// Scheduler fires workflow runs from cron triggers for one team.
type Scheduler struct {
	runner *laneflow.Runner
	cron   *cron.Cron
	logger *slog.Logger

	// serializes run creation per team
	mu sync.Mutex
}

// New creates a scheduler for the runner's team. If logger is nil, the
// default slog logger is used.
func New(runner *laneflow.Runner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner: runner,
		cron:   cron.New(),
		logger: logger,
	}
}

// Add registers all cron triggers of a workflow definition and returns
// how many jobs were added. Definitions without cron triggers register
// nothing. An invalid cron expression fails the whole Add call.
func (s *Scheduler) Add(workflowFile string, def *workflow.Definition) (int, error) {
	added := 0
	for _, t := range def.Triggers {
		if t.Kind != "cron" || t.Cron == "" {
			continue
		}
		spec := t.Cron
		if t.TZ != "" {
			spec = "CRON_TZ=" + t.TZ + " " + spec
		}
		if _, err := s.cron.AddFunc(spec, func() { s.fire(workflowFile) }); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *Scheduler) fire(workflowFile string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trigger := &runlog.Trigger{
		Kind: "cron",
		At:   time.Now().UTC().Format(time.RFC3339),
	}
	res, err := s.runner.Start(context.Background(), workflowFile, trigger)
	if err != nil {
		s.logger.Error("scheduled run failed", "workflow", workflowFile, "error", err)
		return
	}
	s.logger.Info("scheduled run started",
		"workflow", workflowFile, "runId", res.RunID, "status", res.Status)
}

// Start begins firing scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
