package scoring

import (
	"fmt"

	"github.com/Vishai/nba-integrity/pkg/metrics"
)

// TrendScorer penalizes performance collapse: steep rolling net-rating
// declines, a drop after elimination, and close-game win rates well
// below league norms.
type TrendScorer struct {
	Thresholds TrendThresholds
}

func (s *TrendScorer) Key() string  { return KeyTrend }
func (s *TrendScorer) Name() string { return "Trend collapse" }

func (s *TrendScorer) Evaluate(cm *metrics.CaseMetrics) ComponentResult {
	result := ComponentResult{Key: s.Key(), Name: s.Name(), Severity: SeverityInfo}

	b := cm.Trend
	if b == nil {
		result.Error = "trend metrics not computed"
		return result
	}
	if b.Error != "" {
		result.Error = b.Error
		return result
	}

	var total float64

	decline := b.Rolling.MaxDecline
	if pts := round1(s.Thresholds.RollingDecline.Eval(decline)); pts > 0 {
		total += pts
		result.Findings = append(result.Findings, Finding{
			Factor: "rolling_decline",
			Summary: fmt.Sprintf("rolling net rating fell %.1f points, peak game %d to trough game %d",
				decline, b.Rolling.PeakGame, b.Rolling.TroughGame),
			Value:  decline,
			Points: pts,
		})
	}

	if b.PrePostElim.Present {
		drop := -b.PrePostElim.NetRatingChange
		if pts := round1(s.Thresholds.PostElimCollapse.Eval(drop)); pts > 0 {
			total += pts
			result.Findings = append(result.Findings, Finding{
				Factor: "post_elim_collapse",
				Summary: fmt.Sprintf("net rating dropped %.1f points after elimination (%.1f to %.1f)",
					drop, b.PrePostElim.PreNetRating, b.PrePostElim.PostNetRating),
				Value:  drop,
				Points: pts,
			})
		}
	}

	if b.CloseGames.CloseGames > 0 {
		deficit := s.Thresholds.CloseGameBaseline - b.CloseGames.CloseWinPct
		if pts := round1(s.Thresholds.CloseGameDeficit.Eval(deficit)); pts > 0 {
			total += pts
			result.Findings = append(result.Findings, Finding{
				Factor: "close_game_deficit",
				Summary: fmt.Sprintf("won %.1f%% of %d close games, %.1f%% below baseline",
					b.CloseGames.CloseWinPct*100, b.CloseGames.CloseGames, deficit*100),
				Value:  deficit,
				Points: pts,
			})
		}
	}

	result.Score = clampScore(total)
	result.Severity = severityForScore(result.Score)
	return result
}
