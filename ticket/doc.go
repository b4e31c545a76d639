// Package ticket manages markdown ticket files inside the four lane
// directories of a team workspace.
//
// Core types:
//   - Lane: One of the four fixed pipeline stages (backlog, in-progress, testing, done)
//   - Params: Input for rendering the initial ticket document
//
// Operations:
//   - NextNumber: Monotonic 4-digit ticket numbering across all lanes
//   - Move: Lane-to-lane rename with best-effort Status line patch
//   - PatchFields: Owner/Status line replacement within a ticket document
//   - New: Render and write a ticket into its initial lane
//
// A ticket's filename, and in particular its leading 4-digit number, never
// changes across lane moves. Only the containing directory and the Status
// line change.
package ticket
