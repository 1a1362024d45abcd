// Package cli wires together the Cobra command tree for the critic binary.
//
// The run command loads configuration, builds the Anthropic provider, the
// review requester and the GitHub publisher, and hands them to the pipeline.
// render re-renders a saved JSON review, manifest lists the files changed
// since a base revision, config prints the effective
// configuration with secrets masked, and version prints the build version.
// Configuration errors exit with code 1; review findings never affect the
// exit code.
package cli
