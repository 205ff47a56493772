// Package export contains the animation export pipeline: the orchestrator
// that renders frames, dispatches them to a format encoder backend, and owns
// the progress, cancellation, and cleanup contract for one job at a time.
//
// Observers read progress through the orchestrator's Tracker; updates are
// atomic snapshot replacements, so a concurrent reader always sees a
// consistent value. Percent is non-decreasing within a stage and stages move
// strictly Rendering -> Encoding|Compressing -> Done. Done is never reached
// by a failed or cancelled job.
package export
