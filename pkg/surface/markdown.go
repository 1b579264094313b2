package surface

import (
	"fmt"
	"io"

	"github.com/Vishai/nba-integrity/pkg/scoring"
)

// MarkdownRenderer renders CaseResult as a markdown report section,
// suitable for pasting into an appendix document.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, result *scoring.CaseResult) error {
	fmt.Fprintf(w, "## Case %s: %s (%s)\n\n", result.CaseID, result.Team, result.Season)

	fmt.Fprintf(w, "**Composite: %.1f (%s)**", result.Composite, result.Classification)
	if result.Expected != "" {
		match := "mismatch"
		if result.ExpectedMatch {
			match = "match"
		}
		fmt.Fprintf(w, " | Expected: %s (%s)", result.Expected, match)
	}
	fmt.Fprint(w, "\n\n")

	fmt.Fprintln(w, "| Component | Score | Weight | Weighted | Severity |")
	fmt.Fprintln(w, "|-----------|------:|-------:|---------:|----------|")
	for _, cr := range result.Components {
		if cr.Error != "" {
			fmt.Fprintf(w, "| %s | -- | %.2f | -- | %s |\n", cr.Name, cr.Weight, cr.Error)
			continue
		}
		fmt.Fprintf(w, "| %s | %.1f | %.2f | %.1f | %s |\n",
			cr.Name, cr.Score, cr.Weight, cr.Weighted, cr.Severity)
	}
	fmt.Fprintln(w)

	for _, cr := range result.Components {
		if len(cr.Findings) == 0 {
			continue
		}
		fmt.Fprintf(w, "### %s\n\n", cr.Name)
		for _, f := range cr.Findings {
			fmt.Fprintf(w, "- **+%.1f** %s\n", f.Points, f.Summary)
		}
		fmt.Fprintln(w)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "### Warnings")
		fmt.Fprintln(w)
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "- %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	return nil
}
