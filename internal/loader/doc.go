// Package loader reads the changed-files manifest and loads each listed file.
//
// A missing manifest means there is nothing to review. Paths that no longer
// exist are skipped silently; paths that exist but cannot be read are skipped
// with a warning so one bad file never aborts the batch.
package loader
