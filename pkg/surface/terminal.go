package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Vishai/nba-integrity/pkg/scoring"
)

// TerminalRenderer renders CaseResult as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBrtRed = "\033[91m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func classificationColor(label string) string {
	if noColor() {
		return ""
	}
	switch label {
	case scoring.LabelGreen:
		return colorGreen
	case scoring.LabelYellow:
		return colorYellow
	case scoring.LabelOrange:
		return colorBrtRed
	case scoring.LabelRed:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, result *scoring.CaseResult) error {
	cc := classificationColor(result.Classification)

	// Header
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("Integrity index: %s (%s): %.1f %s",
			result.Team, result.Season, result.Composite,
			colored(result.Classification, cc))))

	if result.Expected != "" {
		match := "does not match"
		if result.ExpectedMatch {
			match = "matches"
		}
		fmt.Fprintf(w, "Expected %s, %s computed classification.\n\n", result.Expected, match)
	}

	// Components
	hasFindings := false
	for _, cr := range result.Components {
		if cr.Error != "" {
			fmt.Fprintf(w, "  ( skip) %s %s\n\n", bold(cr.Name), dim(cr.Error))
			continue
		}
		if cr.Score == 0 && len(cr.Findings) == 0 {
			continue
		}
		if !hasFindings {
			fmt.Fprintln(w, "Components:")
			hasFindings = true
		}

		fmt.Fprintf(w, "  (%5.1f) %s %s", cr.Weighted, bold(cr.Name),
			dim(fmt.Sprintf("score %.1f x weight %.2f, %s", cr.Score, cr.Weight, cr.Severity)))
		fmt.Fprintln(w)

		// Show findings (up to 5)
		maxFindings := 5
		if len(cr.Findings) < maxFindings {
			maxFindings = len(cr.Findings)
		}
		for i := 0; i < maxFindings; i++ {
			f := cr.Findings[i]
			fmt.Fprintf(w, "         %s\n", dim(fmt.Sprintf("+%.1f %s", f.Points, f.Summary)))
		}
		if len(cr.Findings) > 5 {
			fmt.Fprintf(w, "         %s\n", dim(fmt.Sprintf("... and %d more", len(cr.Findings)-5)))
		}
		fmt.Fprintln(w)
	}

	if !hasFindings {
		fmt.Fprintln(w, "No scored factors.")
		fmt.Fprintln(w)
	}

	// Warnings
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range result.Warnings {
			for _, line := range wrapText(warn, 70) {
				fmt.Fprintf(w, "  %s %s\n", colored("!", colorYellow), line)
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
