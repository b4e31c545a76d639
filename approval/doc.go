// Package approval owns the per-run approval request document written
// while a human-approval node is outstanding.
//
// Core types:
//   - Record: The approval document (pending, approved or rejected)
//
// Lifecycle: created pending by the node executor, decided exactly once
// by an external action (Decide, last writer wins), then stamped with
// resumedAt/resumedStatus (or resumeError) when the controller consumes
// the decision. The ResumedAt stamp is what keeps repeated poll sweeps
// from double-resuming a run.
package approval
