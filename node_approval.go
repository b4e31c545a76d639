package laneflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/laneflow/approval"
	"github.com/randalmurphal/laneflow/notify"
	"github.com/randalmurphal/laneflow/runlog"
	"github.com/randalmurphal/laneflow/workflow"
)

// runApprovalNode writes a durable approval request, notifies the bound
// channel with approve/reject/resume instructions, and records the
// suspension in the run log. The caller suspends the loop immediately
// after this returns.
//
// Write order matters for crash recovery: the approval file lands first,
// then the notification, then the run log flips to awaiting_approval. A
// crash between the steps leaves a run that is still running with a
// pending approval file, which a fresh Start supersedes.
func (r *Runner) runApprovalNode(ctx context.Context, nctx nodeContext, cfg workflow.HumanApprovalConfig) error {
	binding, err := r.bindings.Resolve(cfg.ApprovalBindingID)
	if err != nil {
		return fmt.Errorf("node %s: %w", nctx.node.Label(), err)
	}

	p := nctx.params
	approvalPath, err := approval.Create(r.teamDir, &approval.Record{
		RunID:        p.runID,
		TeamID:       r.teamID,
		WorkflowFile: p.workflowFile,
		NodeID:       nctx.node.ID,
		BindingID:    cfg.ApprovalBindingID,
		Ticket:       r.rel(nctx.ticketPath),
		RunLog:       r.rel(p.runLogPath),
	})
	if err != nil {
		return err
	}

	nodeName := nctx.node.Name
	if nodeName == "" {
		nodeName = nctx.node.ID
	}
	text := strings.Join([]string{
		"Approval requested for workflow run: " + p.def.DisplayName(p.workflowFile),
		"RunId: " + p.runID,
		"Node: " + nodeName,
		"Ticket: " + r.rel(nctx.ticketPath),
		"Run log: " + r.rel(p.runLogPath),
		"Approval file: " + r.rel(approvalPath),
		"",
		"To approve/reject, run one of:",
		fmt.Sprintf("- laneflow workflows approve --team-id %s --run-id %s --approved true", r.teamID, p.runID),
		fmt.Sprintf("- laneflow workflows approve --team-id %s --run-id %s --approved false", r.teamID, p.runID),
		"Then resume:",
		fmt.Sprintf("- laneflow workflows resume --team-id %s --run-id %s", r.teamID, p.runID),
	}, "\n")

	if err := r.messenger.Send(ctx, notify.Message{
		Channel:   binding.Channel,
		Target:    binding.Target,
		AccountID: binding.AccountID,
		Text:      text,
	}); err != nil {
		return fmt.Errorf("node %s: notify approver: %w", nctx.node.Label(), err)
	}

	if err := runlog.Append(p.runLogPath, func(cur *runlog.RunLog) {
		cur.Status = runlog.StatusAwaitingApproval
		cur.Events = append(cur.Events, runlog.Event{
			TS:           time.Now().UTC().Format(time.RFC3339),
			Type:         runlog.EventNodeAwaitingApproval,
			NodeID:       nctx.node.ID,
			BindingID:    cfg.ApprovalBindingID,
			ApprovalFile: r.rel(approvalPath),
		})
		cur.NodeResults = append(cur.NodeResults, runlog.NodeResult{
			NodeID:            nctx.node.ID,
			Kind:              nctx.node.Kind,
			ApprovalBindingID: cfg.ApprovalBindingID,
			ApprovalFile:      r.rel(approvalPath),
		})
	}); err != nil {
		return err
	}

	r.logger.Info("run awaiting approval",
		"runId", p.runID, "nodeId", nctx.node.ID, "bindingId", cfg.ApprovalBindingID)
	return nil
}
