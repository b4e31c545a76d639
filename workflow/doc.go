// Package workflow defines the declarative workflow document and its
// typed node configurations.
//
// Core types:
//   - Definition: Immutable workflow document; node order is execution order
//   - Node: One step, typed by kind (llm, human_approval, writeback, tool)
//   - Config: Resolved per-kind node configuration (LLMConfig, HumanApprovalConfig, WritebackConfig, ToolConfig)
//   - Trigger: Run trigger declaration (manual or cron)
//
// Load validates only that a document has at least one node. Node-level
// requirements are checked by Node.Resolve when a node is about to
// execute, so a malformed node late in the list never blocks the nodes
// before it. Declared edges are parsed but ignored: execution is linear.
package workflow
