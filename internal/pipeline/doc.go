// Package pipeline runs a complete review: it loads the changed files named
// in the manifest, requests a review, writes the JSON, Markdown and optional
// SARIF artifacts, and publishes the report when a pull request is known.
package pipeline
