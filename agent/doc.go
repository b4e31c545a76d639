// Package agent invokes external agents for generation nodes.
//
// Core types:
//   - Invoker: Interface for running a task against an agent
//   - Request: One invocation (agent id, task text, label, timeout)
//   - CLIInvoker: Invoker backed by an agent CLI binary
//
// Every invocation is bounded by a run timeout (DefaultRunTimeout when
// unset); the approval wait elsewhere in the system is unbounded, the
// generation call is not. Model selection follows llmkit tiers via
// SelectModel.
package agent
