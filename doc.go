// Package laneflow coordinates long-running workflow runs for teams of
// cooperating agents. A declarative workflow definition is instantiated
// into a tracked ticket that moves through a fixed pipeline of lanes
// (backlog, in-progress, testing, done) while typed nodes execute against
// it: automated generation, human approval gates, write-backs and tool
// stubs.
//
// Execution is durable and resumable. Any node may suspend indefinitely
// at a human approval gate, the process may restart between suspension
// and resumption, and every step leaves the ticket, the run log and the
// approval record in an independently recoverable state on disk.
//
// The package is organized into subpackages by domain:
//
//   - workflow: Workflow definitions and typed node configurations
//   - ticket: Lane directories, ticket numbering and document patching
//   - runlog: Per-run JSON log with append-only event history
//   - approval: Durable approval request records
//   - notify: Out-of-band messaging to humans and operators
//   - agent: Bounded agent invocation for generation nodes
//   - config: Approval binding configuration
//   - schedule: Cron trigger scheduling
//   - testutil: Test fixtures and fakes
//
// # Quick Start
//
//	bindings, _ := config.LoadBindings("bindings.yaml")
//	invoker, _ := agent.NewCLIInvoker(agent.CLIConfig{})
//
//	runner, _ := laneflow.NewRunner(laneflow.RunnerConfig{
//	    TeamID:    "platform",
//	    TeamDir:   "/workspaces/workspace-platform",
//	    Invoker:   invoker,
//	    Messenger: notify.NewWebhookMessenger(gatewayURL),
//	    Bindings:  bindings,
//	})
//
//	result, _ := runner.Start(ctx, "release-notes.json", nil)
//	// result.Status is "completed" or "awaiting_approval"
//
// At most one process may advance a given run at a time. Durability comes
// from atomic file writes, not distributed consensus.
package laneflow
