package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/critic/internal/output"
	"github.com/dshills/critic/internal/review"
)

var (
	flagFormat       string
	flagOut          string
	flagRenderModel  string
	flagRenderCommit string
)

var renderCmd = &cobra.Command{
	Use:   "render <review.json>",
	Short: "Re-render a saved JSON review in another format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := review.Load(args[0])
		if err != nil {
			return err
		}

		w, err := output.GetWriter(flagFormat, output.Options{
			Model:       flagRenderModel,
			Commit:      flagRenderCommit,
			ToolVersion: version,
			Timestamp:   time.Now(),
		})
		if err != nil {
			return err
		}

		if flagOut == "" {
			return w.Write(cmd.OutOrStdout(), &r)
		}
		if err := output.WriteFile(flagOut, w, &r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", flagOut)
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&flagFormat, "format", "markdown", "Output format ("+strings.Join(output.Formats, ", ")+")")
	f.StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	f.StringVar(&flagRenderModel, "model", "", "Model name shown in the Markdown header")
	f.StringVar(&flagRenderCommit, "commit", "", "Commit id shown in the Markdown header")
}
