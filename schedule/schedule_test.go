package schedule

import (
	"testing"

	laneflow "github.com/randalmurphal/laneflow"
	"github.com/randalmurphal/laneflow/testutil"
	"github.com/randalmurphal/laneflow/workflow"
)

func newScheduler(t *testing.T) *Scheduler {
	t.Helper()

	runner, err := laneflow.NewRunner(laneflow.RunnerConfig{
		TeamID:  "platform",
		TeamDir: testutil.TeamDir(t),
	})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return New(runner, nil)
}

func TestAdd_RegistersCronTriggers(t *testing.T) {
	s := newScheduler(t)

	def := &workflow.Definition{
		Triggers: []workflow.Trigger{
			{Kind: "cron", Cron: "0 9 * * 1"},
			{Kind: "cron", Cron: "30 17 * * 5", TZ: "Europe/Berlin"},
		},
		Nodes: []workflow.Node{{ID: "sync", Kind: workflow.KindTool}},
	}

	added, err := s.Add("weekly.json", def)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
}

func TestAdd_IgnoresNonCronTriggers(t *testing.T) {
	s := newScheduler(t)

	def := &workflow.Definition{
		Triggers: []workflow.Trigger{
			{Kind: "manual"},
			{Kind: "cron"}, // no expression
		},
		Nodes: []workflow.Node{{ID: "sync", Kind: workflow.KindTool}},
	}

	added, err := s.Add("manual.json", def)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added != 0 {
		t.Errorf("added = %d, want 0", added)
	}
}

func TestAdd_InvalidExpression(t *testing.T) {
	s := newScheduler(t)

	def := &workflow.Definition{
		Triggers: []workflow.Trigger{{Kind: "cron", Cron: "not a cron"}},
		Nodes:    []workflow.Node{{ID: "sync", Kind: workflow.KindTool}},
	}

	if _, err := s.Add("bad.json", def); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}
