package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Renderer writes run reports
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown renders the report body
func (r *Renderer) Markdown(report *Report) string {
	var b strings.Builder
	pol := report.Politician

	fmt.Fprintf(&b, "# %s\n\n", pol.Name)
	if pol.Position != "" || pol.Party != "" {
		fmt.Fprintf(&b, "%s", pol.Position)
		if pol.Party != "" {
			fmt.Fprintf(&b, " · %s", pol.Party)
		}
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Generated %s using %s similarity", report.GeneratedAt.Format("2006-01-02 15:04 MST"), report.Method)
	if report.Degraded {
		b.WriteString(" (embedding provider unavailable)")
	}
	b.WriteString(".\n\n")

	b.WriteString("## Scores\n\n")
	fmt.Fprintf(&b, "- Credibility: **%.2f** / 200\n", report.CredibilityScore)
	if report.Consistency != nil {
		fmt.Fprintf(&b, "- Consistency: **%.1f** / 100\n", *report.Consistency)
	} else {
		b.WriteString("- Consistency: n/a (no verified promises)\n")
	}
	fmt.Fprintf(&b, "- Verified outcomes: %d kept, %d broken, %d partial\n\n",
		report.Counts.Kept, report.Counts.Broken, report.Counts.Partial)

	b.WriteString("## This run\n\n")
	b.WriteString("| Promises | Skipped | Actions | Auto-verified | Needs review | Discarded |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n\n",
		report.Promises, report.SkippedPromises, report.Actions,
		report.AutoVerified, report.NeedsReview, report.Discarded)

	if len(report.Ledger) > 0 {
		b.WriteString("## Ledger\n\n")
		b.WriteString("| Date | Change | Delta | Score | Description |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, e := range report.Ledger {
			fmt.Fprintf(&b, "| %s | %s | %+.2f | %.2f | %s |\n",
				e.Timestamp.Format("2006-01-02"), e.ChangeReason, e.ScoreDelta, e.NewScore, escapeCell(e.Description))
		}
		b.WriteString("\n")
	}

	var review []string
	for _, rec := range report.Records {
		if rec.NeedsReview() {
			review = append(review, fmt.Sprintf("- `%s` ↔ `%s` (%s, %.0f%%): %s",
				rec.PromiseID, rec.ActionID, rec.MatchType, rec.MatchConfidence*100, rec.Explanation))
		}
	}
	if len(review) > 0 {
		b.WriteString("## Awaiting review\n\n")
		b.WriteString(strings.Join(review, "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString("## Sources\n\n")
	b.WriteString(report.Sources.Description)
	b.WriteString("\n")

	return b.String()
}

// RenderSummary prints a short summary line block
func (r *Renderer) RenderSummary(w io.Writer, report *Report) {
	consistency := "n/a"
	if report.Consistency != nil {
		consistency = fmt.Sprintf("%.1f", *report.Consistency)
	}
	_, _ = fmt.Fprintf(w, "%s: credibility %.2f, consistency %s (%d auto-verified, %d for review, %d discarded, method %s)\n",
		report.Politician.Name, report.CredibilityScore, consistency,
		report.AutoVerified, report.NeedsReview, report.Discarded, report.Method)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
