package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/dshills/critic/internal/logging"
)

const (
	anthropicAPIURL     = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion = "2023-06-01"
	anthropicTimeout    = 300 * time.Second
)

// AnthropicConfig configures the Messages API client.
type AnthropicConfig struct {
	APIKey string
	Model  string
	// URL overrides the Messages endpoint.
	URL     string
	Timeout time.Duration
}

// Anthropic implements the Reviewer interface for Anthropic's API.
type Anthropic struct {
	model string
	url   string
	httpc *resty.Client
}

// NewAnthropic creates a new Anthropic provider.
func NewAnthropic(cfg AnthropicConfig, logger hclog.Logger) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("anthropic: model is required")
	}
	if cfg.URL == "" {
		cfg.URL = anthropicAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = anthropicTimeout
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	httpc := resty.New().
		SetLogger(logging.RestyLogger(logger)).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", anthropicAPIVersion)

	return &Anthropic{model: cfg.Model, url: cfg.URL, httpc: httpc}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

// Model returns the model identifier sent with each request.
func (a *Anthropic) Model() string { return a.model }

func (a *Anthropic) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	body := anthropicRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      req.SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.UserPrompt},
		},
	}

	resp, err := a.httpc.R().
		SetContext(ctx).
		SetBody(body).
		Post(a.url)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("sending request: %w", err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ReviewResponse{}, &authError{message: apiErrorMessage(resp.Body())}
	case code != http.StatusOK:
		return ReviewResponse{}, &StatusError{StatusCode: code, Message: apiErrorMessage(resp.Body())}
	}

	var result anthropicResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return ReviewResponse{}, fmt.Errorf("parsing response: %w", err)
	}

	var content strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return ReviewResponse{}, ErrEmptyReply
	}

	return ReviewResponse{
		Content:    content.String(),
		TokensUsed: result.Usage.InputTokens + result.Usage.OutputTokens,
		StopReason: result.StopReason,
	}, nil
}

// apiErrorMessage extracts error.message from an API error body, falling
// back to the raw body.
func apiErrorMessage(body []byte) string {
	var e anthropicError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(body))
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content    []anthropicBlock `json:"content"`
	StopReason string           `json:"stop_reason"`
	Usage      anthropicUsage   `json:"usage"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
