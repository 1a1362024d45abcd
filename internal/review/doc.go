// Package review holds the review data model and turns changed files into a
// Review.
//
// A Requester builds a single prompt embedding every file, sends it to a
// providers.Reviewer and parses the reply. The reply is cut from its first
// '{' to its last '}', checked against the embedded JSON schema, decoded
// strictly and struct-validated. Any failure along the way yields a degraded
// Review (see Review.Degraded) instead of an error.
package review
