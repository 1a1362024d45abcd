// Package output renders a review.Review for people and machines.
//
// Supported formats:
//   - markdown: the full report with header, per-file sections and a next-steps footer
//   - compact: score, summary and file sections only, for pull-request comments
//   - json: the review as indented JSON
//   - sarif: SARIF v2.1.0 for code-scanning uploads
//   - summary: the console block printed at the end of a run
//
// Rendering is deterministic for a given review and timestamp. Files keep the
// order the model returned them in; issues are grouped by severity.
package output
