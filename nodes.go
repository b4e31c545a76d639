package laneflow

import (
	"context"
	"time"

	"github.com/randalmurphal/laneflow/runlog"
	"github.com/randalmurphal/laneflow/ticket"
	"github.com/randalmurphal/laneflow/workflow"
)

// execParams carries the loop inputs. Everything here is reloadable from
// disk; the loop itself holds no state a restart would lose.
type execParams struct {
	def          *workflow.Definition
	workflowFile string
	runID        string
	runLogPath   string
	ticketPath   string
	lane         ticket.Lane
	startIndex   int
}

// execOutcome is the loop result: where the ticket ended up and whether
// the run completed or suspended.
type execOutcome struct {
	ticketPath string
	lane       ticket.Lane
	status     runlog.Status
}

// executeNodes runs workflow nodes in declared order starting at
// startIndex. Declared edges are ignored; execution is strictly linear.
//
// Before a node's own logic runs, a declared lane that differs from the
// ticket's current lane moves the ticket and appends a ticket.moved
// event. A human_approval node suspends the loop by returning an
// awaiting_approval outcome; every other known kind continues. Unknown
// kinds and invalid node config abort the run immediately.
func (r *Runner) executeNodes(ctx context.Context, p execParams) (execOutcome, error) {
	curLane := p.lane
	curTicketPath := p.ticketPath

	for i := p.startIndex; i < len(p.def.Nodes); i++ {
		node := p.def.Nodes[i]

		cfg, err := node.Resolve()
		if err != nil {
			return execOutcome{}, err
		}

		if lane, ok := cfg.NodeLane(); ok && lane != curLane {
			moved, err := ticket.Move(r.teamDir, curTicketPath, lane, r.logger)
			if err != nil {
				return execOutcome{}, err
			}
			curLane = lane
			curTicketPath = moved
			if err := runlog.Append(p.runLogPath, func(cur *runlog.RunLog) {
				cur.Ticket.File = r.rel(curTicketPath)
				cur.Ticket.Lane = curLane
				cur.Events = append(cur.Events, runlog.Event{
					TS:     time.Now().UTC().Format(time.RFC3339),
					Type:   runlog.EventTicketMoved,
					Lane:   curLane,
					NodeID: node.ID,
				})
			}); err != nil {
				return execOutcome{}, err
			}
			r.logger.Info("ticket moved", "runId", p.runID, "nodeId", node.ID, "lane", curLane)
		}

		nctx := nodeContext{
			params:     p,
			node:       node,
			ticketPath: curTicketPath,
			lane:       curLane,
		}

		switch c := cfg.(type) {
		case workflow.LLMConfig:
			if err := r.runLLMNode(ctx, nctx, c); err != nil {
				return execOutcome{}, err
			}

		case workflow.HumanApprovalConfig:
			if err := r.runApprovalNode(ctx, nctx, c); err != nil {
				return execOutcome{}, err
			}
			return execOutcome{
				ticketPath: curTicketPath,
				lane:       curLane,
				status:     runlog.StatusAwaitingApproval,
			}, nil

		case workflow.WritebackConfig:
			if err := r.runWritebackNode(ctx, nctx, c); err != nil {
				return execOutcome{}, err
			}

		case workflow.ToolConfig:
			if err := r.runToolNode(nctx); err != nil {
				return execOutcome{}, err
			}
		}
	}

	if err := runlog.Append(p.runLogPath, func(cur *runlog.RunLog) {
		cur.Status = runlog.StatusCompleted
		cur.Events = append(cur.Events, runlog.Event{
			TS:   time.Now().UTC().Format(time.RFC3339),
			Type: runlog.EventRunCompleted,
			Lane: curLane,
		})
	}); err != nil {
		return execOutcome{}, err
	}
	r.logger.Info("run completed", "runId", p.runID, "lane", curLane)

	return execOutcome{
		ticketPath: curTicketPath,
		lane:       curLane,
		status:     runlog.StatusCompleted,
	}, nil
}

// nodeContext bundles what a node executor needs about its position in
// the run.
type nodeContext struct {
	params     execParams
	node       workflow.Node
	ticketPath string
	lane       ticket.Lane
}
