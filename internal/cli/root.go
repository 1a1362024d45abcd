package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X".
var version = "0.1.0"

// Exit codes. Critical findings never change the exit code.
const (
	ExitSuccess = 0
	ExitError   = 1
)

var rootCmd = &cobra.Command{
	Use:           "critic",
	Short:         "AI code review for pull requests",
	Long:          "critic sends the files changed in a pull request to Claude, writes the structured review as Markdown, JSON and SARIF, and can post it as a pull-request comment.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, os.Args[1:])
}

func execute(ctx context.Context, args []string) int {
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print critic version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "critic version %s\n", version)
	},
}
