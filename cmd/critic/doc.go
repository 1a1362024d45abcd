// Critic is a CI helper that reviews the files changed in a pull request with
// Claude and reports the findings.
//
// Usage:
//
//	critic run                       # review files listed in changed_files.txt
//	critic run --sarif --out-dir out # also write a SARIF report into out/
//	critic render code_review_latest.json --format compact
//	critic manifest --base origin/main # write changed_files.txt from git
//	critic config                    # show effective configuration
//
// Required environment: ANTHROPIC_API_KEY. Optional: GITHUB_TOKEN, PR_NUMBER,
// REPO_NAME, COMMIT_SHA (GitHub Actions' GITHUB_REPOSITORY, GITHUB_SHA and
// GITHUB_REF are used as fallbacks). A .env file in the working directory is
// loaded first.
package main
