// Package errors provides predicates over the error taxonomy of the run
// coordinator.
//
// The taxonomy:
//   - Configuration errors (missing node config, unknown kind, bad lane):
//     fatal, abort the run, never retried
//   - Not-found errors (workflow, run log, approval record): fatal to the
//     triggering call
//   - Approval races (resume while pending): explicit rejection naming
//     the remediation
//   - Agent failures: propagate uncaught; the run stays resumable by an
//     external retry
package errors

import (
	"errors"

	"github.com/randalmurphal/laneflow/agent"
	"github.com/randalmurphal/laneflow/approval"
	"github.com/randalmurphal/laneflow/runlog"
	"github.com/randalmurphal/laneflow/workflow"
)

// IsConfig checks if an error is a node configuration error: a missing
// or invalid required config key, or an unknown node kind.
func IsConfig(err error) bool {
	var cfgErr *workflow.ConfigError
	if errors.As(err, &cfgErr) {
		return true
	}
	var kindErr *workflow.UnknownKindError
	return errors.As(err, &kindErr)
}

// IsNotFound checks if an error reports a missing run log or approval
// record.
func IsNotFound(err error) bool {
	return errors.Is(err, runlog.ErrNotFound) || errors.Is(err, approval.ErrNotFound)
}

// IsStillPending checks if an error reports a resume attempt on an
// undecided approval.
func IsStillPending(err error) bool {
	return errors.Is(err, approval.ErrStillPending)
}

// IsAgent checks if an error came from the agent invocation collaborator.
func IsAgent(err error) bool {
	return errors.Is(err, agent.ErrAgentNotFound) ||
		errors.Is(err, agent.ErrAgentTimeout) ||
		errors.Is(err, agent.ErrAgentFailed)
}
