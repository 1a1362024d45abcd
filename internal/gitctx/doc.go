// Package gitctx reads repository metadata and changed paths from a local git
// checkout using go-git.
//
// It fills in the commit and repository when the CI environment does not
// provide them, and [ChangedFiles] produces the changed-files manifest for
// local runs.
package gitctx
