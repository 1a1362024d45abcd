package output

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/critic/internal/config"
	"github.com/dshills/critic/internal/review"
)

const timestampLayout = "2006-01-02 15:04:05"

// MarkdownWriter renders a review as Markdown. The compact form drops the
// report header and footer and is meant for pull-request comments.
type MarkdownWriter struct {
	Compact   bool
	Model     string
	Commit    string
	Timestamp time.Time
}

func (m *MarkdownWriter) Write(w io.Writer, r *review.Review) error {
	ew := &errWriter{w: w}

	if m.Compact {
		ew.printf("**📊 Overall Score**: %s/100\n\n", scoreText(r))
		ew.printf("**🔍 Summary**: %s\n\n", summaryText(r))
	} else {
		m.header(ew, r)
	}

	for _, f := range r.Files {
		writeFileSection(ew, f)
	}

	if !m.Compact {
		m.footer(ew)
	}
	return ew.err
}

func (m *MarkdownWriter) header(ew *errWriter, r *review.Review) {
	commit := config.ShortCommit(m.Commit)
	if commit == "" {
		commit = "N/A"
	}

	ew.println("# 🤖 AI Code Review Report")
	ew.println("")
	ew.printf("**Date**: %s\n", m.Timestamp.Format(timestampLayout))
	ew.printf("**Model**: %s\n", m.modelName())
	ew.printf("**Commit**: `%s`\n\n", commit)
	ew.println("---")
	ew.println("")
	ew.println("## 📊 Summary")
	ew.println("")
	ew.printf("%s\n\n", summaryText(r))
	ew.printf("**Overall Score**: %s/100\n\n", scoreText(r))

	if r.Degraded() {
		ew.println("### ⚠️ Analysis Error")
		ew.println("")
		if r.Error != "" {
			ew.printf("`%s`\n\n", strings.ReplaceAll(r.Error, "`", "'"))
		}
		if r.RawResponse != "" {
			ew.println("<details>\n<summary>Raw model response</summary>\n")
			ew.printf("```\n%s\n```\n\n", strings.TrimRight(r.RawResponse, "\n"))
			ew.println("</details>\n")
		}
	}

	ew.println("---")
	ew.println("")
}

func (m *MarkdownWriter) footer(ew *errWriter) {
	ew.println("")
	ew.println("## 🔧 Next Steps")
	ew.println("")
	ew.println("1. 🔴 Fix **CRITICAL** and **HIGH** issues first")
	ew.println("2. ✅ Apply the proposed suggestions")
	ew.println("3. 🧪 Run the tests to check for regressions")
	ew.println("4. 📚 Consider the recommendations to improve code quality")
	ew.println("")
	ew.println("---")
	ew.println("")
	ew.printf("*Generated by critic using %s*\n", m.modelName())
}

func (m *MarkdownWriter) modelName() string {
	if m.Model == "" {
		return "N/A"
	}
	return m.Model
}

func writeFileSection(ew *errWriter, f review.FileReview) {
	ew.printf("## 📄 File: `%s`\n\n", f.Path)
	ew.printf("**Score**: %d/10\n\n", f.Score)

	if len(f.Issues) > 0 {
		ew.println("### 🔍 Issues Found")
		ew.println("")

		groups := review.GroupBySeverity(f.Issues)
		for _, sev := range review.SeverityOrder {
			issues := groups[sev]
			if len(issues) == 0 {
				continue
			}
			ew.printf("\n#### %s %s\n\n", severityIcon(sev), sev.Label())
			for _, issue := range issues {
				writeIssue(ew, issue)
			}
		}
	}

	writeList(ew, "### ✅ Strengths", f.Strengths)
	writeList(ew, "### 💡 Recommendations", f.Recommendations)

	ew.println("\n---")
	ew.println("")
}

func writeIssue(ew *errWriter, issue review.Issue) {
	var lineInfo string
	if issue.HasLine() {
		lineInfo = " (Line " + strconv.Itoa(*issue.Line) + ")"
	}
	title := issue.Title
	if title == "" {
		title = "Issue"
	}
	description := issue.Description
	if description == "" {
		description = "No description"
	}

	ew.printf("**[%s]%s** - %s\n\n", issue.Category.Title(), lineInfo, title)
	ew.printf("%s\n\n", description)
	if issue.Suggestion != "" {
		ew.printf("💡 **Suggestion**: %s\n\n", issue.Suggestion)
	}
	ew.println("---")
	ew.println("")
}

func writeList(ew *errWriter, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	ew.printf("%s\n\n", heading)
	for _, item := range items {
		ew.printf("- %s\n", item)
	}
	ew.println("")
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "🔴"
	case review.SeverityHigh:
		return "🟠"
	case review.SeverityMedium:
		return "🟡"
	case review.SeverityLow:
		return "🔵"
	case review.SeverityInfo:
		return "ℹ️"
	default:
		return "•"
	}
}
