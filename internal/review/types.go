package review

import "strings"

// Severity represents the severity level of an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// SeverityOrder is the fixed priority order used when grouping issues.
var SeverityOrder = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Label returns the upper-case heading used in reports.
func (s Severity) Label() string {
	return strings.ToUpper(string(s))
}

// Category represents the type of issue.
type Category string

const (
	CategoryBug          Category = "bug"
	CategorySecurity     Category = "security"
	CategoryPerformance  Category = "performance"
	CategoryStyle        Category = "style"
	CategoryBestPractice Category = "best-practice"
)

// Title returns the category as words in title case ("best-practice" -> "Best Practice").
func (c Category) Title() string {
	if c == "" {
		return "General"
	}
	words := strings.Fields(strings.ReplaceAll(string(c), "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Issue is a single finding within a file.
type Issue struct {
	Severity    Severity `json:"severity" validate:"required,oneof=critical high medium low info"`
	Category    Category `json:"category" validate:"required,oneof=bug security performance style best-practice"`
	Line        *int     `json:"line" validate:"omitempty,gte=0"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// HasLine reports whether the issue points at a specific line.
func (i Issue) HasLine() bool {
	return i.Line != nil && *i.Line > 0
}

// FileReview holds the findings for one file.
type FileReview struct {
	Path            string   `json:"path" validate:"required"`
	Score           int      `json:"score" validate:"gte=0,lte=10"`
	Issues          []Issue  `json:"issues" validate:"dive"`
	Strengths       []string `json:"strengths"`
	Recommendations []string `json:"recommendations"`
}

// Review is the structured result of analysing a batch of files.
//
// A degraded review carries Error and/or RawResponse and no files.
type Review struct {
	Summary      string       `json:"summary"`
	OverallScore *int         `json:"overall_score,omitempty" validate:"required,gte=0,lte=100"`
	Files        []FileReview `json:"files" validate:"dive"`
	Error        string       `json:"error,omitempty"`
	RawResponse  string       `json:"raw_response,omitempty"`
}

// Degraded reports whether the review failed to produce structured findings.
func (r Review) Degraded() bool {
	return r.Error != "" || r.RawResponse != ""
}

// Score returns the overall score and whether one was provided.
func (r Review) Score() (int, bool) {
	if r.OverallScore == nil {
		return 0, false
	}
	return *r.OverallScore, true
}

// SeverityCounts holds issue counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// Total returns the number of issues counted.
func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low + c.Info
}

// Counts tallies issues across all files by severity.
func (r Review) Counts() SeverityCounts {
	var c SeverityCounts
	for _, f := range r.Files {
		for _, i := range f.Issues {
			switch i.Severity {
			case SeverityCritical:
				c.Critical++
			case SeverityHigh:
				c.High++
			case SeverityMedium:
				c.Medium++
			case SeverityLow:
				c.Low++
			case SeverityInfo:
				c.Info++
			}
		}
	}
	return c
}

// CriticalCount returns the number of critical issues across all files.
func (r Review) CriticalCount() int {
	return r.Counts().Critical
}

// GroupBySeverity buckets issues by severity, keeping their relative order.
func GroupBySeverity(issues []Issue) map[Severity][]Issue {
	m := make(map[Severity][]Issue)
	for _, i := range issues {
		m[i.Severity] = append(m[i.Severity], i)
	}
	return m
}

// Empty returns the review produced when there is nothing to analyse.
func Empty() Review {
	score := 100
	return Review{
		Summary:      "No files to review",
		OverallScore: &score,
		Files:        []FileReview{},
	}
}

// Failed returns a degraded review for a transport or API failure.
func Failed(err error) Review {
	return Review{
		Summary: "Error during analysis: " + err.Error(),
		Files:   []FileReview{},
		Error:   err.Error(),
	}
}

// Unparsed returns a degraded review for a reply that could not be parsed.
func Unparsed(raw string, err error) Review {
	return Review{
		Summary:     "Error parsing AI response",
		Files:       []FileReview{},
		Error:       err.Error(),
		RawResponse: raw,
	}
}
