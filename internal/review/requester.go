package review

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/dshills/critic/internal/loader"
	"github.com/dshills/critic/internal/providers"
	"github.com/dshills/critic/internal/redact"
)

// Options tunes a Requester.
type Options struct {
	MaxTokens   int
	Temperature float64
	// Policy redacts file contents before prompting; nil sends them as-is.
	Policy *redact.Policy
	Logger hclog.Logger
}

// Requester turns a batch of changed files into a Review using one call to
// the completion provider.
type Requester struct {
	provider    providers.Reviewer
	maxTokens   int
	temperature float64
	policy      *redact.Policy
	logger      hclog.Logger
}

// NewRequester creates a Requester backed by provider.
func NewRequester(provider providers.Reviewer, opts Options) *Requester {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Requester{
		provider:    provider,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		policy:      opts.Policy,
		logger:      logger,
	}
}

// Request reviews files. It never returns an error: failures are reported as
// a degraded Review.
func (r *Requester) Request(ctx context.Context, files []loader.ChangedFile) Review {
	if len(files) == 0 {
		return Empty()
	}

	prompt := BuildPrompt(r.prepare(files))

	r.logger.Info("requesting review", "provider", r.provider.Name(), "files", len(files), "prompt_bytes", len(prompt))
	start := time.Now()
	resp, err := r.provider.Review(ctx, providers.ReviewRequest{
		UserPrompt:  prompt,
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
	})
	if err != nil {
		if providers.IsAuthError(err) {
			r.logger.Error("completion API rejected the credentials", "error", err)
		} else {
			r.logger.Error("review request failed", "error", err)
		}
		return Failed(err)
	}
	r.logger.Debug("review received", "elapsed", time.Since(start).Round(time.Millisecond), "tokens", resp.TokensUsed)
	if resp.StopReason == "max_tokens" {
		r.logger.Warn("reply was truncated at the token limit", "max_tokens", r.maxTokens)
	}

	rev, err := ParseResponse(resp.Content)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			r.logger.Error("reply does not match the review schema", "violations", len(se.Errors))
		}
		r.logger.Error("could not parse review", "error", err)
		return Unparsed(resp.Content, err)
	}
	return rev
}

// prepare returns copies of files with their contents redacted.
func (r *Requester) prepare(files []loader.ChangedFile) []loader.ChangedFile {
	if r.policy == nil {
		return files
	}
	out := make([]loader.ChangedFile, len(files))
	for i, f := range files {
		content, n := r.policy.Content(f.Path, f.Content)
		if n > 0 {
			r.logger.Info("redacted secrets", "path", f.Path, "count", n)
		}
		out[i] = loader.ChangedFile{Path: f.Path, Content: content, LineCount: f.LineCount}
	}
	return out
}
