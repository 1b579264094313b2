// Package metrics derives structured aggregate bundles from raw season
// records. Each bundle feeds exactly one component scorer and is built
// deterministically: identical inputs reproduce identical output, which
// the caching layer relies on.
package metrics

import "github.com/Vishai/nba-integrity/pkg/season"

// Error markers carried on bundles instead of raised. A bundle with a
// non-empty Error scores 0 and the marker is surfaced for display.
const (
	errNoPlayerData   = "no player/game log data; run ingest first"
	errNoGameData     = "no game log data"
	errNoRatings      = "no advanced rating data; run ingest with box scores first"
	errNoPlayerBox    = "no player box score data; run box score ingest first"
	errNoStandings    = "no standings data; run ingest first"
	errNoElimination  = "no elimination date; rotation analysis requires elimination context"
	errTeamNotInTable = "team not found in standings"
)

// CaseMetrics gathers the four component bundles plus the elimination
// result for one case. This is the uniform input every component scorer
// evaluates against.
type CaseMetrics struct {
	Elimination  *season.EliminationResult `json:"elimination,omitempty"`
	Availability *AvailabilityBundle       `json:"availability,omitempty"`
	Trend        *TrendBundle              `json:"trend_collapse,omitempty"`
	Rotation     *RotationBundle           `json:"rotation_disruption,omitempty"`
	Context      *ContextBundle            `json:"historical_context,omitempty"`
}

// round1 and round3 keep bundle output byte-stable across recomputation.
func round1(x float64) float64 { return roundTo(x, 10) }
func round2(x float64) float64 { return roundTo(x, 100) }
func round3(x float64) float64 { return roundTo(x, 1000) }

func roundTo(x float64, scale float64) float64 {
	if x < 0 {
		return -roundTo(-x, scale)
	}
	return float64(int64(x*scale+0.5)) / scale
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
