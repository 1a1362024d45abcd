// Package redact removes secrets from file contents before they are embedded
// in a review prompt.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS credentials, bearer tokens, connection strings with
// inline passwords, and provider-specific tokens (Anthropic, OpenAI, GitHub,
// Slack). Files matching gitignore-style path patterns are withheld entirely.
package redact
