package scoring_test

import (
	"testing"

	"github.com/Vishai/nba-integrity/pkg/metrics"
	"github.com/Vishai/nba-integrity/pkg/scoring"
)

func trendScorer() *scoring.TrendScorer {
	return &scoring.TrendScorer{Thresholds: scoring.DefaultThresholds().Trend}
}

func TestTrendScorer_Basic(t *testing.T) {
	cm := &metrics.CaseMetrics{
		Trend: &metrics.TrendBundle{
			Rolling: metrics.RollingNetRating{MaxDecline: 10, PeakGame: 20, TroughGame: 55},
			PrePostElim: metrics.PrePostElim{
				Present:         true,
				PreNetRating:    -2,
				PostNetRating:   -7,
				NetRatingChange: -5,
			},
			CloseGames: metrics.CloseGames{CloseGames: 20, CloseWins: 7, CloseWinPct: 0.35},
		},
	}

	cr := trendScorer().Evaluate(cm)
	// decline 10 -> 20, post-elim drop 5 -> 20, close deficit 0.10 -> 15.
	if pts := findingPoints(t, cr, "rolling_decline"); pts != 20 {
		t.Errorf("expected 20 decline points, got %v", pts)
	}
	if pts := findingPoints(t, cr, "post_elim_collapse"); pts != 20 {
		t.Errorf("expected 20 collapse points, got %v", pts)
	}
	if pts := findingPoints(t, cr, "close_game_deficit"); !near(pts, 15) {
		t.Errorf("expected 15 close-game points, got %v", pts)
	}
	if cr.Score != 55 {
		t.Errorf("expected score 55, got %v", cr.Score)
	}
	if cr.Severity != scoring.SeverityHigh {
		t.Errorf("expected HIGH severity, got %s", cr.Severity)
	}
}

func TestTrendScorer_DeclineActivation(t *testing.T) {
	mk := func(decline float64) *metrics.CaseMetrics {
		return &metrics.CaseMetrics{
			Trend: &metrics.TrendBundle{Rolling: metrics.RollingNetRating{MaxDecline: decline}},
		}
	}

	if cr := trendScorer().Evaluate(mk(4.9)); hasFinding(cr, "rolling_decline") {
		t.Error("expected no decline finding below the 5-point activation")
	}
	cr := trendScorer().Evaluate(mk(5))
	if pts := findingPoints(t, cr, "rolling_decline"); pts != 5 {
		t.Errorf("expected the 5-point activation jump, got %v", pts)
	}
	cr = trendScorer().Evaluate(mk(40))
	if pts := findingPoints(t, cr, "rolling_decline"); pts != 35 {
		t.Errorf("expected the 35-point cap, got %v", pts)
	}
}

func TestTrendScorer_ImprovementNotPenalized(t *testing.T) {
	cm := &metrics.CaseMetrics{
		Trend: &metrics.TrendBundle{
			PrePostElim: metrics.PrePostElim{Present: true, NetRatingChange: 2.5},
			CloseGames:  metrics.CloseGames{CloseGames: 10, CloseWinPct: 0.6},
		},
	}
	cr := trendScorer().Evaluate(cm)
	if cr.Score != 0 {
		t.Errorf("expected score 0 for an improving team, got %v", cr.Score)
	}
}

func TestTrendScorer_ErrorBundle(t *testing.T) {
	cr := trendScorer().Evaluate(&metrics.CaseMetrics{
		Trend: &metrics.TrendBundle{Error: "no advanced rating data"},
	})
	if cr.Score != 0 || cr.Error == "" {
		t.Errorf("expected zero score with the error attached, got %v / %q", cr.Score, cr.Error)
	}
}
