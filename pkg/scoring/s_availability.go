package scoring

import (
	"fmt"

	"github.com/Vishai/nba-integrity/pkg/metrics"
)

// AvailabilityScorer penalizes missing star minutes: overall absence
// volume, absences clustering after elimination, and absences skewed
// toward losses.
type AvailabilityScorer struct {
	Thresholds AvailabilityThresholds
}

func (s *AvailabilityScorer) Key() string  { return KeyAvailability }
func (s *AvailabilityScorer) Name() string { return "Star availability" }

func (s *AvailabilityScorer) Evaluate(cm *metrics.CaseMetrics) ComponentResult {
	result := ComponentResult{Key: s.Key(), Name: s.Name(), Severity: SeverityInfo}

	b := cm.Availability
	if b == nil {
		result.Error = "availability metrics not computed"
		return result
	}
	if b.Error != "" {
		result.Error = b.Error
		return result
	}

	var total float64

	rate := b.AbsenceSummary.AbsenceRate
	if pts := round1(s.Thresholds.AbsenceRate.Eval(rate)); pts > 0 {
		total += pts
		result.Findings = append(result.Findings, Finding{
			Factor:  "absence_rate",
			Summary: fmt.Sprintf("qualified players missed %.1f%% of possible appearances", rate*100),
			Value:   rate,
			Points:  pts,
		})
	}

	if b.Clustering.Present {
		ratio := b.Clustering.ClusterRatio
		if pts := round1(s.Thresholds.ClusterRatio.Eval(ratio)); pts > 0 {
			total += pts
			result.Findings = append(result.Findings, Finding{
				Factor: "absence_clustering",
				Summary: fmt.Sprintf("post-elimination absence rate %.1fx the pre-elimination rate",
					ratio),
				Value:  ratio,
				Points: pts,
			})
		}
	}

	d := b.Distribution
	if d.LossAbsenceRate > 0 && d.WinAbsenceRate > 0 {
		skew := d.LossAbsenceRate / d.WinAbsenceRate
		if pts := round1(s.Thresholds.LossSkew.Eval(skew)); pts > 0 {
			total += pts
			result.Findings = append(result.Findings, Finding{
				Factor: "loss_skew",
				Summary: fmt.Sprintf("stars absent %.1fx as often in losses as in wins",
					skew),
				Value:  skew,
				Points: pts,
			})
		}
	}

	result.Score = clampScore(total)
	result.Severity = severityForScore(result.Score)
	return result
}
