package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// Defaults for the review request and artifacts.
const (
	DefaultModel        = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens    = 16000
	DefaultTemperature  = 0.3
	DefaultManifest     = "changed_files.txt"
	DefaultConfigFile   = ".critic.yaml"
	DefaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	DefaultGitHubAPIURL = "https://api.github.com/"

	// fallbackCommitTag names artifacts when no commit id is known.
	fallbackCommitTag = "latest"
)

// Config is the effective configuration for one run.
type Config struct {
	APIKey      string
	GitHubToken string
	PRNumber    int
	Repo        string
	Commit      string

	Model        string
	MaxTokens    int
	Temperature  float64
	Manifest     string
	OutputDir    string
	AnthropicURL string
	GitHubAPIURL string

	Exclude      []string
	Extensions   []string
	MaxFileBytes int64

	SARIF         bool
	Post          bool
	RedactSecrets bool
	LogLevel      string
}

// fileConfig mirrors the YAML file. Pointers distinguish unset from zero.
type fileConfig struct {
	Model        string   `yaml:"model"`
	MaxTokens    int      `yaml:"max_tokens"`
	Temperature  *float64 `yaml:"temperature"`
	Manifest     string   `yaml:"manifest"`
	OutputDir    string   `yaml:"output_dir"`
	AnthropicURL string   `yaml:"anthropic_url"`
	GitHubAPIURL string   `yaml:"github_api_url"`
	Exclude      []string `yaml:"exclude"`
	Extensions   []string `yaml:"extensions"`
	MaxFileBytes int64    `yaml:"max_file_bytes"`
	SARIF        *bool    `yaml:"sarif"`
	Log          struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Privacy struct {
		RedactSecrets *bool `yaml:"redact_secrets"`
	} `yaml:"privacy"`
}

// MissingError reports a required setting that was not provided.
type MissingError struct {
	Var string
}

func (e *MissingError) Error() string {
	return e.Var + " is not set"
}

// IsMissing reports whether err is (or wraps) a MissingError.
func IsMissing(err error) bool {
	var me *MissingError
	return errors.As(err, &me)
}

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// Options controls where Load reads from.
type Options struct {
	// ConfigPath is an explicit config file; it must exist when set.
	ConfigPath string
	// Overrides come from CLI flags; only non-empty values are applied.
	Overrides map[string]string
	Lookup    LookupFunc
	// SkipCredentialCheck allows a missing API key, for inspecting config.
	SkipCredentialCheck bool
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Model:         DefaultModel,
		MaxTokens:     DefaultMaxTokens,
		Temperature:   DefaultTemperature,
		Manifest:      DefaultManifest,
		OutputDir:     ".",
		AnthropicURL:  DefaultAnthropicURL,
		GitHubAPIURL:  DefaultGitHubAPIURL,
		Post:          true,
		RedactSecrets: true,
		LogLevel:      "info",
	}
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
func Load(opts Options) (Config, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.Getenv
	}

	cfg := Default()

	fc, err := loadFile(opts.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fc)

	if err := mergeEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, opts.Overrides); err != nil {
		return Config{}, err
	}

	if cfg.APIKey == "" && !opts.SkipCredentialCheck {
		return Config{}, &MissingError{Var: "ANTHROPIC_API_KEY"}
	}
	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return fc, nil
		}
		return fc, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return fc, nil
}

func mergeFile(dst *Config, src fileConfig) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.Temperature != nil {
		dst.Temperature = *src.Temperature
	}
	if src.Manifest != "" {
		dst.Manifest = src.Manifest
	}
	if src.OutputDir != "" {
		dst.OutputDir = src.OutputDir
	}
	if src.AnthropicURL != "" {
		dst.AnthropicURL = src.AnthropicURL
	}
	if src.GitHubAPIURL != "" {
		dst.GitHubAPIURL = src.GitHubAPIURL
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if len(src.Extensions) > 0 {
		dst.Extensions = src.Extensions
	}
	if src.MaxFileBytes > 0 {
		dst.MaxFileBytes = src.MaxFileBytes
	}
	if src.SARIF != nil {
		dst.SARIF = *src.SARIF
	}
	if src.Log.Level != "" {
		dst.LogLevel = src.Log.Level
	}
	if src.Privacy.RedactSecrets != nil {
		dst.RedactSecrets = *src.Privacy.RedactSecrets
	}
}

var pullRefRe = regexp.MustCompile(`^refs/pull/(\d+)/`)

func mergeEnv(cfg *Config, lookup LookupFunc) error {
	cfg.APIKey = lookup("ANTHROPIC_API_KEY")
	cfg.GitHubToken = lookup("GITHUB_TOKEN")

	cfg.Repo = firstNonEmpty(lookup("REPO_NAME"), lookup("GITHUB_REPOSITORY"))
	cfg.Commit = firstNonEmpty(lookup("COMMIT_SHA"), lookup("GITHUB_SHA"))

	if v := strings.TrimSpace(lookup("PR_NUMBER")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("PR_NUMBER must be a positive integer, got %q", v)
		}
		cfg.PRNumber = n
	} else if m := pullRefRe.FindStringSubmatch(lookup("GITHUB_REF")); m != nil {
		cfg.PRNumber, _ = strconv.Atoi(m[1])
	}

	if v := lookup("CRITIC_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := lookup("CRITIC_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := lookup("CRITIC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := lookup("ANTHROPIC_API_URL"); v != "" {
		cfg.AnthropicURL = v
	}
	if v := lookup("GITHUB_API_URL"); v != "" {
		cfg.GitHubAPIURL = v
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
	if v, ok := overrides["manifest"]; ok && v != "" {
		cfg.Manifest = v
	}
	if v, ok := overrides["outDir"]; ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["exclude"]; ok && v != "" {
		cfg.Exclude = SplitList(v)
	}
	if v, ok := overrides["extensions"]; ok && v != "" {
		cfg.Extensions = SplitList(v)
	}
	for key, dst := range map[string]*bool{
		"sarif":  &cfg.SARIF,
		"post":   &cfg.Post,
		"redact": &cfg.RedactSecrets,
	} {
		v, ok := overrides[key]
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		*dst = b
	}
	return nil
}

// SplitList splits a comma-separated value, trimming spaces and dropping
// empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// WithRepoDefaults returns a copy of c with Commit and Repo set to commit
// and repo where the environment left them empty.
func (c Config) WithRepoDefaults(commit, repo string) Config {
	if c.Commit == "" {
		c.Commit = commit
	}
	if c.Repo == "" {
		c.Repo = repo
	}
	return c
}

// CommitTag returns the commit id truncated to eight characters, or "latest"
// when no commit is known. It names the report artifacts.
func (c Config) CommitTag() string {
	if c.Commit == "" {
		return fallbackCommitTag
	}
	return ShortCommit(c.Commit)
}

// ShortCommit truncates a commit id to eight characters.
func ShortCommit(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// Redacted returns a YAML rendering of the config with credentials masked.
func (c Config) Redacted() (string, error) {
	view := struct {
		APIKey       string   `yaml:"anthropic_api_key"`
		GitHubToken  string   `yaml:"github_token"`
		PRNumber     int      `yaml:"pr_number,omitempty"`
		Repo         string   `yaml:"repo,omitempty"`
		Commit       string   `yaml:"commit,omitempty"`
		Model        string   `yaml:"model"`
		MaxTokens    int      `yaml:"max_tokens"`
		Temperature  float64  `yaml:"temperature"`
		Manifest     string   `yaml:"manifest"`
		OutputDir    string   `yaml:"output_dir"`
		AnthropicURL string   `yaml:"anthropic_url"`
		GitHubAPIURL string   `yaml:"github_api_url"`
		Exclude      []string `yaml:"exclude,omitempty"`
		Extensions   []string `yaml:"extensions,omitempty"`
		MaxFileBytes int64    `yaml:"max_file_bytes,omitempty"`
		SARIF        bool     `yaml:"sarif"`
		Post         bool     `yaml:"post"`
		Redact       bool     `yaml:"redact_secrets"`
		LogLevel     string   `yaml:"log_level"`
	}{
		APIKey:       mask(c.APIKey),
		GitHubToken:  mask(c.GitHubToken),
		PRNumber:     c.PRNumber,
		Repo:         c.Repo,
		Commit:       c.Commit,
		Model:        c.Model,
		MaxTokens:    c.MaxTokens,
		Temperature:  c.Temperature,
		Manifest:     c.Manifest,
		OutputDir:    c.OutputDir,
		AnthropicURL: c.AnthropicURL,
		GitHubAPIURL: c.GitHubAPIURL,
		Exclude:      c.Exclude,
		Extensions:   c.Extensions,
		MaxFileBytes: c.MaxFileBytes,
		SARIF:        c.SARIF,
		Post:         c.Post,
		Redact:       c.RedactSecrets,
		LogLevel:     c.LogLevel,
	}
	data, err := yaml.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}

func mask(secret string) string {
	switch {
	case secret == "":
		return "(unset)"
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
