package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gitsight/go-vcsurl"
	gh "github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
)

const (
	defaultAPIURL  = "https://api.github.com/"
	publishTimeout = 60 * time.Second
)

// Publisher posts review reports as pull-request comments.
type Publisher struct {
	apiURL string
	logger hclog.Logger
	// base is the transport under the bearer-token wrapper; nil means http.DefaultTransport.
	base http.RoundTripper
}

// NewPublisher creates a Publisher for the API rooted at apiURL
// (https://api.github.com/ when empty).
func NewPublisher(apiURL string, logger hclog.Logger) *Publisher {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Publisher{apiURL: apiURL, logger: logger}
}

// PostComment posts body as a comment on pull request prNumber of repo. It
// reports whether GitHub created the comment; failures are logged, never
// returned. No request is made without a PR number and token.
func (p *Publisher) PostComment(ctx context.Context, body, repo string, prNumber int, token string) bool {
	if prNumber <= 0 || token == "" {
		p.logger.Warn("skipping pull request comment: PR number or token not set", "pr", prNumber)
		return false
	}

	owner, name, err := ParseRepo(repo)
	if err != nil {
		p.logger.Warn("skipping pull request comment", "error", err)
		return false
	}

	client, err := p.client(token)
	if err != nil {
		p.logger.Error("invalid GitHub API URL", "url", p.apiURL, "error", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	_, resp, err := client.Issues.CreateComment(ctx, owner, name, prNumber, &gh.IssueComment{Body: gh.String(body)})
	if err != nil {
		if resp != nil {
			p.logger.Error("failed to post comment", "status", resp.StatusCode, "error", err)
		} else {
			p.logger.Error("failed to post comment", "error", err)
		}
		return false
	}
	if resp.StatusCode != http.StatusCreated {
		p.logger.Error("failed to post comment", "status", resp.StatusCode)
		return false
	}

	p.logger.Info("review posted to pull request", "repo", owner+"/"+name, "pr", prNumber)
	return true
}

func (p *Publisher) client(token string) (*gh.Client, error) {
	base := p.base
	if base == nil {
		base = http.DefaultTransport
	}
	client := gh.NewClient(&http.Client{
		Transport: &bearerTransport{token: token, base: base},
		Timeout:   publishTimeout,
	})

	apiURL := p.apiURL
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, err
	}
	client.BaseURL = u
	return client, nil
}

// bearerTransport adds an Authorization header to every request.
type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(r)
}

var (
	ownerRepoRe   = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// ParseRepo extracts owner and name from "owner/name" or a git remote URL.
func ParseRepo(repo string) (owner, name string, err error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return "", "", fmt.Errorf("repository not set")
	}
	trimmed := strings.TrimSuffix(repo, ".git")

	if m := ownerRepoRe.FindStringSubmatch(trimmed); len(m) == 3 {
		return m[1], m[2], nil
	}
	if info, err := vcsurl.Parse(repo); err == nil && info.Username != "" && info.Name != "" {
		return info.Username, strings.TrimSuffix(info.Name, ".git"), nil
	}
	if m := httpsRemoteRe.FindStringSubmatch(trimmed); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(trimmed); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from %q", repo)
}
