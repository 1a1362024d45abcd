package cli

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/dshills/critic/internal/config"
	"github.com/dshills/critic/internal/gitctx"
	"github.com/dshills/critic/internal/github"
	"github.com/dshills/critic/internal/logging"
	"github.com/dshills/critic/internal/pipeline"
	"github.com/dshills/critic/internal/providers"
	"github.com/dshills/critic/internal/redact"
	"github.com/dshills/critic/internal/review"
)

// Run flags
var (
	flagManifest   string
	flagOutDir     string
	flagModel      string
	flagConfig     string
	flagExclude    string
	flagExtensions string
	flagSARIF      bool
	flagNoRedact   bool
	flagNoPost     bool
	flagDetectGit  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Review the files listed in the changed-files manifest",
	Long: `Review the files listed in the changed-files manifest.

Reads ANTHROPIC_API_KEY (required), GITHUB_TOKEN, PR_NUMBER, REPO_NAME and
COMMIT_SHA from the environment, with GITHUB_REPOSITORY, GITHUB_SHA and
GITHUB_REF as fallbacks. Writes code_review_<commit>.json and .md to the
output directory and, when a pull request number is known, review_report.md
plus a comment on the pull request.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&flagManifest, "manifest", "", "Changed-files manifest (default changed_files.txt)")
	f.StringVar(&flagOutDir, "out-dir", "", "Directory for report artifacts (default .)")
	f.StringVar(&flagModel, "model", "", "Model name")
	f.StringVar(&flagConfig, "config", "", "Config file (default .critic.yaml when present)")
	f.StringVar(&flagExclude, "exclude", "", "Gitignore-style patterns to skip (comma-separated)")
	f.StringVar(&flagExtensions, "extensions", "", "Only review files with these extensions (comma-separated)")
	f.BoolVar(&flagSARIF, "sarif", false, "Also write a SARIF report")
	f.BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	f.BoolVar(&flagNoPost, "no-post", false, "Never post a pull-request comment")
	f.BoolVar(&flagDetectGit, "detect-git", false, "Fill in commit and repository from the local git checkout when unset")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagManifest != "" {
		m["manifest"] = flagManifest
	}
	if flagOutDir != "" {
		m["outDir"] = flagOutDir
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagExclude != "" {
		m["exclude"] = flagExclude
	}
	if flagExtensions != "" {
		m["extensions"] = flagExtensions
	}
	if flagSARIF {
		m["sarif"] = "true"
	}
	if flagNoRedact {
		m["redact"] = "false"
	}
	if flagNoPost {
		m["post"] = "false"
	}
	return m
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.Options{ConfigPath: flagConfig, Overrides: buildOverrides()})
	if err != nil {
		return err
	}

	logger := logging.New("critic", cfg.LogLevel, cmd.ErrOrStderr())
	if flagDetectGit {
		cfg = withGitMetadata(cfg, logger)
	}
	logger.Debug("configuration loaded", "model", cfg.Model, "manifest", cfg.Manifest, "pr", cfg.PRNumber)

	provider, err := providers.NewAnthropic(providers.AnthropicConfig{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		URL:    cfg.AnthropicURL,
	}, logger.Named("anthropic"))
	if err != nil {
		return err
	}

	var policy *redact.Policy
	if cfg.RedactSecrets {
		policy = redact.DefaultPolicy()
	} else {
		logger.Warn("secret redaction disabled; file contents are sent as-is")
	}

	requester := review.NewRequester(provider, review.Options{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Policy:      policy,
		Logger:      logger.Named("review"),
	})

	p := pipeline.New(cfg, pipeline.Deps{
		Reviewer: requester,
		Poster:   github.NewPublisher(cfg.GitHubAPIURL, logger.Named("github")),
		Logger:   logger,
		Stdout:   cmd.OutOrStdout(),
		Version:  version,
	})
	_, err = p.Run(cmd.Context())
	return err
}

// withGitMetadata fills commit and repository from the working directory's
// git checkout. Failures are logged and leave cfg unchanged.
func withGitMetadata(cfg config.Config, logger hclog.Logger) config.Config {
	meta, err := gitctx.GetRepoMeta(".")
	if err != nil {
		logger.Warn("cannot read git metadata", "error", err)
		return cfg
	}
	logger.Debug("git metadata", "head", meta.Head, "branch", meta.Branch, "remote", meta.Remote)
	return cfg.WithRepoDefaults(meta.Head, meta.Remote)
}
