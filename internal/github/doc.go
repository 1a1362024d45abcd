// Package github posts review reports to pull requests.
//
// Publisher makes a single issue-comment request through go-github with a
// bearer token and treats only 201 Created as success. Repository
// identifiers may be given as owner/name or as any git remote URL.
package github
