package laneflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/randalmurphal/laneflow/runlog"
	"github.com/randalmurphal/laneflow/workflow"
)

// runWritebackNode appends a timestamped stamp block naming the run, its
// run log and its ticket to each target path, creating targets that do
// not exist. The side effect is append-only and safe to repeat: each call
// adds a new stamp rather than rewriting previous content.
func (r *Runner) runWritebackNode(ctx context.Context, nctx nodeContext, cfg workflow.WritebackConfig) error {
	p := nctx.params
	ts := time.Now().UTC().Format(time.RFC3339)
	stamp := fmt.Sprintf("\n\n---\nWorkflow writeback (%s) @ %s\n---\nRun log: %s\nTicket: %s\n",
		p.runID, ts, r.rel(p.runLogPath), r.rel(nctx.ticketPath))

	for _, target := range cfg.WritebackPaths {
		abs := filepath.Join(r.teamDir, target)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return fmt.Errorf("node %s: create writeback dir: %w", nctx.node.Label(), err)
		}
		f, err := os.OpenFile(abs, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("node %s: open %s: %w", nctx.node.Label(), target, err)
		}
		if _, err := f.WriteString(stamp); err != nil {
			f.Close()
			return fmt.Errorf("node %s: append %s: %w", nctx.node.Label(), target, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("node %s: close %s: %w", nctx.node.Label(), target, err)
		}
	}

	if err := runlog.Append(p.runLogPath, func(cur *runlog.RunLog) {
		cur.Events = append(cur.Events, runlog.Event{
			TS:             time.Now().UTC().Format(time.RFC3339),
			Type:           runlog.EventNodeCompleted,
			NodeID:         nctx.node.ID,
			Kind:           nctx.node.Kind,
			WritebackPaths: cfg.WritebackPaths,
		})
		cur.NodeResults = append(cur.NodeResults, runlog.NodeResult{
			NodeID:         nctx.node.ID,
			Kind:           nctx.node.Kind,
			AgentID:        cfg.AgentID,
			WritebackPaths: cfg.WritebackPaths,
		})
	}); err != nil {
		return err
	}

	r.logger.Info("node completed",
		"runId", p.runID, "nodeId", nctx.node.ID, "kind", nctx.node.Kind, "targets", len(cfg.WritebackPaths))
	return nil
}
