package laneflow

import (
	"time"

	"github.com/randalmurphal/laneflow/runlog"
)

// toolStubReason marks tool nodes as recorded no-ops until tool
// integrations land.
const toolStubReason = "integration stub"

// runToolNode records the skip and continues. Skipping is deliberate
// forward-compatibility: tool nodes keep their place in the run history
// without executing anything.
func (r *Runner) runToolNode(nctx nodeContext) error {
	p := nctx.params
	if err := runlog.Append(p.runLogPath, func(cur *runlog.RunLog) {
		cur.Events = append(cur.Events, runlog.Event{
			TS:     time.Now().UTC().Format(time.RFC3339),
			Type:   runlog.EventNodeSkipped,
			NodeID: nctx.node.ID,
			Kind:   nctx.node.Kind,
			Reason: toolStubReason,
		})
		cur.NodeResults = append(cur.NodeResults, runlog.NodeResult{
			NodeID:  nctx.node.ID,
			Kind:    nctx.node.Kind,
			Skipped: true,
			Reason:  toolStubReason,
		})
	}); err != nil {
		return err
	}

	r.logger.Info("node skipped", "runId", p.runID, "nodeId", nctx.node.ID, "reason", toolStubReason)
	return nil
}
