// Package surface defines output rendering interfaces for integrity-index
// results. Implementations handle different output targets: terminal,
// markdown report, JSON.
package surface

import (
	"io"

	"github.com/Vishai/nba-integrity/pkg/scoring"
)

// Renderer produces formatted output from a CaseResult.
type Renderer interface {
	// Render writes the formatted case result to the writer.
	Render(w io.Writer, result *scoring.CaseResult) error
}
