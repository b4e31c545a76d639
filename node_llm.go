package laneflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/randalmurphal/laneflow/agent"
	"github.com/randalmurphal/laneflow/runlog"
	"github.com/randalmurphal/laneflow/workflow"
)

// runLLMNode reads the node's prompt template, delegates generation to
// the agent invoker with a bounded timeout, and writes the returned text
// to the node's output path. Invoker failures propagate uncaught; the run
// log keeps the last successful event.
func (r *Runner) runLLMNode(ctx context.Context, nctx nodeContext, cfg workflow.LLMConfig) error {
	if r.invoker == nil {
		return fmt.Errorf("node %s: no agent invoker configured", nctx.node.Label())
	}

	promptPath := filepath.Join(r.teamDir, cfg.PromptTemplatePath)
	prompt, err := os.ReadFile(promptPath)
	if err != nil {
		return fmt.Errorf("node %s: read prompt template: %w", nctx.node.Label(), err)
	}

	outPath := filepath.Join(r.teamDir, cfg.OutputPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("node %s: create output dir: %w", nctx.node.Label(), err)
	}

	p := nctx.params
	task := strings.Join([]string{
		fmt.Sprintf("You are executing a workflow run for teamId=%s.", r.teamID),
		"Workflow: " + p.def.DisplayName(p.workflowFile),
		"RunId: " + p.runID,
		"Node: " + nctx.node.Label(),
		"",
		"---",
		"PROMPT TEMPLATE",
		"---",
		strings.TrimSpace(string(prompt)),
		"",
		"---",
		"OUTPUT FORMAT",
		"---",
		"Return ONLY the final content to be written to: " + cfg.OutputPath,
	}, "\n")

	wfID := p.def.ID
	if wfID == "" {
		wfID = "workflow"
	}
	text, err := r.invoker.Invoke(ctx, agent.Request{
		AgentID:    cfg.AgentID,
		Task:       task,
		Label:      fmt.Sprintf("workflow:%s:%s:%s:%s", r.teamID, wfID, p.runID, nctx.node.ID),
		Cleanup:    "delete",
		RunTimeout: agent.DefaultRunTimeout,
	})
	if err != nil {
		return fmt.Errorf("node %s: %w", nctx.node.Label(), err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = "[no output]"
	}
	if err := os.WriteFile(outPath, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("node %s: write output: %w", nctx.node.Label(), err)
	}

	if err := runlog.Append(p.runLogPath, func(cur *runlog.RunLog) {
		cur.Events = append(cur.Events, runlog.Event{
			TS:         time.Now().UTC().Format(time.RFC3339),
			Type:       runlog.EventNodeCompleted,
			NodeID:     nctx.node.ID,
			Kind:       nctx.node.Kind,
			OutputPath: cfg.OutputPath,
		})
		cur.NodeResults = append(cur.NodeResults, runlog.NodeResult{
			NodeID:     nctx.node.ID,
			Kind:       nctx.node.Kind,
			AgentID:    cfg.AgentID,
			OutputPath: cfg.OutputPath,
			Bytes:      len(text),
		})
	}); err != nil {
		return err
	}

	r.logger.Info("node completed",
		"runId", p.runID, "nodeId", nctx.node.ID, "kind", nctx.node.Kind, "outputPath", cfg.OutputPath)
	return nil
}
