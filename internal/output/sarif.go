package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/dshills/critic/internal/review"
)

const informationURI = "https://github.com/dshills/critic"

// SARIFWriter outputs issues in SARIF v2.1.0 format, one rule per category.
type SARIFWriter struct {
	ToolVersion string
}

func (s *SARIFWriter) Write(w io.Writer, r *review.Review) error {
	report, err := buildSARIF(r, s.ToolVersion)
	if err != nil {
		return err
	}
	if err := report.PrettyWrite(w); err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	return nil
}

func buildSARIF(r *review.Review, version string) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("critic", informationURI)
	if version != "" {
		run.Tool.Driver.Version = &version
	}

	for _, f := range r.Files {
		for _, issue := range f.Issues {
			rule := run.AddRule(ruleID(issue.Category)).
				WithDescription(issue.Category.Title() + " issues reported by AI review").
				WithDefaultConfiguration(&sarif.ReportingConfiguration{
					Level: sarifLevel(review.SeverityMedium),
				})

			physical := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.Path))
			if issue.HasLine() {
				physical = physical.WithRegion(sarif.NewRegion().WithStartLine(*issue.Line))
			}
			location := sarif.NewLocation().WithPhysicalLocation(physical)

			result := sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(resultMessage(issue))).
				WithLevel(sarifLevel(issue.Severity)).
				WithLocations([]*sarif.Location{location})
			run.AddResult(result)
		}
	}

	report.AddRun(run)
	return report, nil
}

func ruleID(c review.Category) string {
	if c == "" {
		return "critic/general"
	}
	return "critic/" + string(c)
}

func resultMessage(issue review.Issue) string {
	msg := issue.Title
	if issue.Description != "" {
		msg += ": " + issue.Description
	}
	if issue.Suggestion != "" {
		msg += "\nSuggestion: " + issue.Suggestion
	}
	return msg
}

func sarifLevel(s review.Severity) string {
	switch s {
	case review.SeverityCritical, review.SeverityHigh:
		return "error"
	case review.SeverityMedium:
		return "warning"
	case review.SeverityLow, review.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}
