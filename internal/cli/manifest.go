package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/critic/internal/config"
	"github.com/dshills/critic/internal/gitctx"
)

var (
	flagBase         string
	flagManifestOut  string
	flagManifestExts string
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Write the changed-files manifest from the local git history",
	Long: `Write the changed-files manifest from the local git history.

Lists the paths added or modified between --base and HEAD, one per line, in
the format the run command reads. Useful outside CI, where the runner does
not provide the manifest.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := gitctx.ChangedFiles(".", flagBase)
		if err != nil {
			return err
		}

		if exts := config.SplitList(flagManifestExts); len(exts) > 0 {
			kept := files[:0]
			for _, f := range files {
				for _, ext := range exts {
					if strings.HasSuffix(strings.ToLower(f), strings.ToLower(ext)) {
						kept = append(kept, f)
						break
					}
				}
			}
			files = kept
		}

		var content string
		if len(files) > 0 {
			content = strings.Join(files, "\n") + "\n"
		}
		if err := os.WriteFile(flagManifestOut, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d path(s) to %s\n", len(files), flagManifestOut)
		return nil
	},
}

func init() {
	f := manifestCmd.Flags()
	f.StringVar(&flagBase, "base", "origin/main", "Revision to compare HEAD against")
	f.StringVar(&flagManifestOut, "out", config.DefaultManifest, "Manifest file to write")
	f.StringVar(&flagManifestExts, "extensions", "", "Only list files with these extensions (comma-separated)")
}
