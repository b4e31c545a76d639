// Package runlog owns the per-run JSON log document: an append-only event
// history plus mutable status and ticket-pointer fields.
//
// Core types:
//   - RunLog: The run document (status, ticket pointer, events, node results)
//   - Event: One append-only history entry
//   - NodeResult: One entry per completed, suspended or skipped node
//
// Append performs a full-document read-modify-write; writes go through a
// temp file renamed over the target, so a crash never leaves a partial
// document. Cross-process concurrent writers are unsupported.
package runlog
