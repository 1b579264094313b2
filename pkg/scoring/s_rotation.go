package scoring

import (
	"fmt"
	"math"

	"github.com/Vishai/nba-integrity/pkg/metrics"
)

// RotationScorer penalizes post-elimination rotation churn: benched
// rotation players, a flood of new faces, minutes decoupling from
// performance, and lineup experimentation.
type RotationScorer struct {
	Thresholds RotationThresholds
}

func (s *RotationScorer) Key() string  { return KeyRotation }
func (s *RotationScorer) Name() string { return "Rotation disruption" }

func (s *RotationScorer) Evaluate(cm *metrics.CaseMetrics) ComponentResult {
	result := ComponentResult{Key: s.Key(), Name: s.Name(), Severity: SeverityInfo}

	b := cm.Rotation
	if b == nil {
		result.Error = "rotation metrics not computed"
		return result
	}
	if b.Error != "" {
		result.Error = b.Error
		return result
	}

	var total float64

	dec := float64(b.PostElimChanges.SignificantDecreases)
	if pts := round1(s.Thresholds.SignificantDecreases.Eval(dec)); pts > 0 {
		total += pts
		result.Findings = append(result.Findings, Finding{
			Factor: "significant_decreases",
			Summary: fmt.Sprintf("%d rotation players lost over 20%% of their minutes after elimination",
				b.PostElimChanges.SignificantDecreases),
			Value:  dec,
			Points: pts,
		})
	}

	if n := len(b.PostElimChanges.NewRotationPlayers); n > 0 {
		pts := math.Min(float64(n)*s.Thresholds.PointsPerNewPlayer, s.Thresholds.NewPlayerCap)
		total += pts
		result.Findings = append(result.Findings, Finding{
			Factor:  "new_rotation_players",
			Summary: fmt.Sprintf("%d new players entered the top rotation after elimination", n),
			Value:   float64(n),
			Points:  pts,
		})
	}

	// A nil correlation means it was undefined for one of the windows;
	// the sub-score is skipped rather than treated as zero shift.
	if c := b.Correlation; c != nil && c.Shift < 0 {
		mag := -c.Shift
		if pts := round1(s.Thresholds.CorrelationDecline.Eval(mag)); pts > 0 {
			total += pts
			result.Findings = append(result.Findings, Finding{
				Factor: "correlation_decline",
				Summary: fmt.Sprintf("minutes/performance correlation fell %.2f (%.2f to %.2f)",
					mag, c.PreCorr, c.PostCorr),
				Value:  mag,
				Points: pts,
			})
		}
	}

	inc := b.Experimentation.Increase
	if pts := round1(s.Thresholds.Experimentation.Eval(inc)); pts > 0 {
		total += pts
		result.Findings = append(result.Findings, Finding{
			Factor: "experimentation",
			Summary: fmt.Sprintf("%.1f more players used per game after elimination (%.1f to %.1f)",
				inc, b.Experimentation.PreAvgPlayersPerGame, b.Experimentation.PostAvgPlayersPerGame),
			Value:  inc,
			Points: pts,
		})
	}

	result.Score = clampScore(total)
	result.Severity = severityForScore(result.Score)
	return result
}
