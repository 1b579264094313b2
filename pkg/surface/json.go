package surface

import (
	"encoding/json"
	"io"

	"github.com/Vishai/nba-integrity/pkg/scoring"
)

// JSONRenderer marshals CaseResult to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, result *scoring.CaseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
