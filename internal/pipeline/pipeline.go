package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/dshills/critic/internal/config"
	"github.com/dshills/critic/internal/loader"
	"github.com/dshills/critic/internal/output"
	"github.com/dshills/critic/internal/review"
)

// CompactReportFile is the PR-comment sized report written when a pull
// request is known.
const CompactReportFile = "review_report.md"

// Reviewer produces a review for a batch of files.
type Reviewer interface {
	Request(ctx context.Context, files []loader.ChangedFile) review.Review
}

// Poster publishes a report to a pull request.
type Poster interface {
	PostComment(ctx context.Context, body, repo string, prNumber int, token string) bool
}

// Deps are the collaborators of a Pipeline. Reviewer is required.
type Deps struct {
	Reviewer Reviewer
	Poster   Poster
	Logger   hclog.Logger
	// Stdout receives the console summary (os.Stdout when nil).
	Stdout io.Writer
	// Now stamps the full report (time.Now when nil).
	Now     func() time.Time
	Version string
}

// Outcome describes what a run did.
type Outcome struct {
	RunID         string
	Files         int
	Review        review.Review
	Artifacts     []string
	Posted        bool
	CriticalCount int
	// Skipped is set when there was nothing to review.
	Skipped bool
}

// Pipeline drives one review run: load, request, write artifacts, publish.
type Pipeline struct {
	cfg  config.Config
	deps Deps
}

// New creates a Pipeline for cfg.
func New(cfg config.Config, deps Deps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = hclog.NewNullLogger()
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{cfg: cfg, deps: deps}
}

// Run executes the pipeline. Only manifest read failures and artifact write
// failures are returned; review and publish problems are logged and folded
// into the Outcome.
func (p *Pipeline) Run(ctx context.Context) (Outcome, error) {
	out := Outcome{RunID: uuid.NewString()}
	logger := p.deps.Logger.With("run_id", out.RunID)

	files, err := loader.Load(p.cfg.Manifest, loader.Options{
		Exclude:      p.cfg.Exclude,
		Extensions:   p.cfg.Extensions,
		MaxFileBytes: p.cfg.MaxFileBytes,
		Logger:       logger.Named("loader"),
	})
	if err != nil {
		return out, fmt.Errorf("loading changed files: %w", err)
	}
	out.Files = len(files)
	if len(files) == 0 {
		logger.Info("nothing to review")
		out.Skipped = true
		return out, nil
	}
	logger.Info("found files to review", "count", len(files))

	rev := p.deps.Reviewer.Request(ctx, files)
	out.Review = rev
	if rev.Degraded() {
		logger.Warn("review is degraded", "error", rev.Error)
	}

	report, err := p.writeArtifacts(&out, logger)
	if err != nil {
		return out, err
	}

	if p.cfg.PRNumber > 0 {
		path := filepath.Join(p.cfg.OutputDir, CompactReportFile)
		if err := output.WriteFile(path, &output.MarkdownWriter{Compact: true}, &rev); err != nil {
			return out, err
		}
		out.Artifacts = append(out.Artifacts, path)
		logger.Info("compact report saved", "path", path)

		if p.cfg.Post && p.deps.Poster != nil {
			logger.Info("posting review to pull request", "pr", p.cfg.PRNumber)
			out.Posted = p.deps.Poster.PostComment(ctx, report, p.cfg.Repo, p.cfg.PRNumber, p.cfg.GitHubToken)
		}
	}

	if err := (&output.SummaryWriter{}).Write(p.deps.Stdout, &rev); err != nil {
		logger.Warn("could not print summary", "error", err)
	}

	out.CriticalCount = rev.CriticalCount()
	if out.CriticalCount > 0 {
		logger.Warn("critical issues detected", "count", out.CriticalCount)
	}
	return out, nil
}

// writeArtifacts saves the JSON, full Markdown and optional SARIF reports and
// returns the full Markdown for publishing.
func (p *Pipeline) writeArtifacts(out *Outcome, logger hclog.Logger) (string, error) {
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	tag := p.cfg.CommitTag()
	base := filepath.Join(p.cfg.OutputDir, "code_review_"+tag)

	jsonPath := base + ".json"
	if err := output.WriteFile(jsonPath, &output.JSONWriter{}, &out.Review); err != nil {
		return "", err
	}
	out.Artifacts = append(out.Artifacts, jsonPath)
	logger.Info("JSON report saved", "path", jsonPath)

	var md bytes.Buffer
	full := &output.MarkdownWriter{Model: p.cfg.Model, Commit: p.cfg.Commit, Timestamp: p.deps.Now()}
	if err := full.Write(&md, &out.Review); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	mdPath := base + ".md"
	if err := os.WriteFile(mdPath, md.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", mdPath, err)
	}
	out.Artifacts = append(out.Artifacts, mdPath)
	logger.Info("Markdown report saved", "path", mdPath)

	if p.cfg.SARIF {
		sarifPath := base + ".sarif"
		if err := output.WriteFile(sarifPath, &output.SARIFWriter{ToolVersion: p.deps.Version}, &out.Review); err != nil {
			return "", err
		}
		out.Artifacts = append(out.Artifacts, sarifPath)
		logger.Info("SARIF report saved", "path", sarifPath)
	}
	return md.String(), nil
}
