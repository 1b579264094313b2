package scoring_test

import (
	"testing"

	"github.com/Vishai/nba-integrity/pkg/metrics"
	"github.com/Vishai/nba-integrity/pkg/scoring"
)

func rotationScorer() *scoring.RotationScorer {
	return &scoring.RotationScorer{Thresholds: scoring.DefaultThresholds().Rotation}
}

func TestRotationScorer_Basic(t *testing.T) {
	cm := &metrics.CaseMetrics{
		Rotation: &metrics.RotationBundle{
			PostElimChanges: metrics.PostElimChanges{
				SignificantDecreases: 4,
				NewRotationPlayers: []metrics.NewRotationPlayer{
					{PlayerName: "A"}, {PlayerName: "B"}, {PlayerName: "C"},
				},
			},
			Correlation: &metrics.QualityCorrelation{
				PreCorr: 0.5, PostCorr: 0.3, Shift: -0.2,
			},
			Experimentation: metrics.Experimentation{Increase: 1},
		},
	}

	cr := rotationScorer().Evaluate(cm)
	// 4 decreases -> 27.5, 3 new players -> 15, shift 0.2 -> 15, churn 1 -> 10.
	if pts := findingPoints(t, cr, "significant_decreases"); pts != 27.5 {
		t.Errorf("expected 27.5 decrease points, got %v", pts)
	}
	if pts := findingPoints(t, cr, "new_rotation_players"); pts != 15 {
		t.Errorf("expected 15 new-player points, got %v", pts)
	}
	if pts := findingPoints(t, cr, "correlation_decline"); !near(pts, 15) {
		t.Errorf("expected 15 correlation points, got %v", pts)
	}
	if pts := findingPoints(t, cr, "experimentation"); pts != 10 {
		t.Errorf("expected 10 experimentation points, got %v", pts)
	}
	if cr.Score != 67.5 {
		t.Errorf("expected score 67.5, got %v", cr.Score)
	}
}

func TestRotationScorer_NewPlayerCap(t *testing.T) {
	players := make([]metrics.NewRotationPlayer, 6)
	cm := &metrics.CaseMetrics{
		Rotation: &metrics.RotationBundle{
			PostElimChanges: metrics.PostElimChanges{NewRotationPlayers: players},
		},
	}
	cr := rotationScorer().Evaluate(cm)
	if pts := findingPoints(t, cr, "new_rotation_players"); pts != 20 {
		t.Errorf("expected the 20-point cap, got %v", pts)
	}
}

func TestRotationScorer_UndefinedCorrelationSkipped(t *testing.T) {
	cm := &metrics.CaseMetrics{
		Rotation: &metrics.RotationBundle{
			PostElimChanges: metrics.PostElimChanges{SignificantDecreases: 2},
		},
	}
	cr := rotationScorer().Evaluate(cm)
	if hasFinding(cr, "correlation_decline") {
		t.Error("expected no correlation finding when the correlation is undefined")
	}
	if cr.Score != 20 {
		t.Errorf("expected only the decrease points, got %v", cr.Score)
	}
}

func TestRotationScorer_ImprovedCorrelationNotPenalized(t *testing.T) {
	cm := &metrics.CaseMetrics{
		Rotation: &metrics.RotationBundle{
			Correlation: &metrics.QualityCorrelation{Shift: 0.25},
		},
	}
	cr := rotationScorer().Evaluate(cm)
	if hasFinding(cr, "correlation_decline") {
		t.Error("expected no finding for an improving correlation")
	}
}

func TestRotationScorer_ErrorBundle(t *testing.T) {
	cr := rotationScorer().Evaluate(&metrics.CaseMetrics{
		Rotation: &metrics.RotationBundle{Error: "no elimination date"},
	})
	if cr.Score != 0 || cr.Error == "" {
		t.Errorf("expected zero score with the error attached, got %v / %q", cr.Score, cr.Error)
	}
}
