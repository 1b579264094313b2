package scoring

import (
	"fmt"
	"math"

	"github.com/Vishai/nba-integrity/pkg/metrics"
)

// ContextScorer penalizes seasons that are outliers against league
// history: a bottom tier far from the multi-season baseline, a second
// half far worse than the first, and futility after elimination.
type ContextScorer struct {
	Thresholds ContextThresholds
}

func (s *ContextScorer) Key() string  { return KeyContext }
func (s *ContextScorer) Name() string { return "Historical context" }

func (s *ContextScorer) Evaluate(cm *metrics.CaseMetrics) ComponentResult {
	result := ComponentResult{Key: s.Key(), Name: s.Name(), Severity: SeverityInfo}

	b := cm.Context
	if b == nil {
		result.Error = "historical context metrics not computed"
		return result
	}
	if b.Error != "" {
		result.Error = b.Error
		return result
	}

	var total float64

	if b.League.SeasonsAnalyzed > 0 {
		dev := math.Abs(b.League.Deviation)
		if pts := round1(s.Thresholds.BaselineDeviation.Eval(dev)); pts > 0 {
			total += pts
			result.Findings = append(result.Findings, Finding{
				Factor: "baseline_deviation",
				Summary: fmt.Sprintf("bottom tier averages %.1f wins, %.1f standard deviations from the %d-season baseline",
					b.League.CurrentBottomAvg, b.League.Deviation, b.League.SeasonsAnalyzed),
				Value:  dev,
				Points: pts,
			})
		}
	}

	if b.Temporal.Present {
		dropoff := 90 - b.Temporal.PostPctOfPre
		if pts := round1(s.Thresholds.PostBreakDropoff.Eval(dropoff)); pts > 0 {
			total += pts
			result.Findings = append(result.Findings, Finding{
				Factor: "post_break_dropoff",
				Summary: fmt.Sprintf("post-break winning at %.1f%% of the pre-break pace (%s then %s)",
					b.Temporal.PostPctOfPre, b.Temporal.PreBreakRecord, b.Temporal.PostBreakRecord),
				Value:  dropoff,
				Points: pts,
			})
		}
	}

	if pr, ok := b.Calendar.Periods[metrics.PeriodPostElim]; ok && pr.Games > 0 {
		deficit := s.Thresholds.PostElimBaseline - pr.WinRate
		if pts := round1(s.Thresholds.PostElimDeficit.Eval(deficit)); pts > 0 {
			total += pts
			result.Findings = append(result.Findings, Finding{
				Factor: "post_elim_deficit",
				Summary: fmt.Sprintf("went %s after elimination, %.1f%% below baseline",
					pr.Record, deficit*100),
				Value:  deficit,
				Points: pts,
			})
		}
	}

	result.Score = clampScore(total)
	result.Severity = severityForScore(result.Score)
	return result
}
