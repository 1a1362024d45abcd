// Package config loads the critic configuration once at startup.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (ANTHROPIC_API_KEY, GITHUB_TOKEN, PR_NUMBER,
//     REPO_NAME, COMMIT_SHA, CRITIC_MODEL, ...)
//  3. Config file (.critic.yaml in the working directory, or --config)
//  4. Built-in defaults
//
// When the primary CI variables are unset, the GitHub Actions equivalents
// (GITHUB_REPOSITORY, GITHUB_SHA, GITHUB_REF) are consulted. The resulting
// [Config] is a plain value passed to each component; nothing else in the
// program reads the environment.
package config
