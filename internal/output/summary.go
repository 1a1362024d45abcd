package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/critic/internal/review"
)

// SummaryWriter prints the short console block shown at the end of a run.
type SummaryWriter struct{}

func (s *SummaryWriter) Write(w io.Writer, r *review.Review) error {
	ew := &errWriter{w: w}
	rule := strings.Repeat("=", 60)

	ew.printf("\n%s\n", rule)
	ew.println("📊 REVIEW SUMMARY")
	ew.println(rule)
	ew.printf("Overall Score: %s/100\n", scoreText(r))

	counts := r.Counts()
	if total := counts.Total(); total > 0 {
		ew.printf("Issues: %d (%s)\n", total, countsText(counts))
	}
	ew.printf("\n%s\n", summaryText(r))
	ew.println(rule)

	if n := counts.Critical; n > 0 {
		ew.printf("\n⚠️ WARNING: %d critical issue(s) detected!\n", n)
		ew.println("🔴 Please fix these issues before merging.")
	}
	return ew.err
}

func countsText(c review.SeverityCounts) string {
	var parts []string
	for _, p := range []struct {
		n     int
		label string
	}{
		{c.Critical, "critical"},
		{c.High, "high"},
		{c.Medium, "medium"},
		{c.Low, "low"},
		{c.Info, "info"},
	} {
		if p.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", p.n, p.label))
		}
	}
	return strings.Join(parts, ", ")
}
