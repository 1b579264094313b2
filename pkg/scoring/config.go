package scoring

import (
	"fmt"
	"math"
)

// Weights holds the composite weight of each component scorer.
type Weights struct {
	Availability float64 `json:"availability" yaml:"availability"`
	Trend        float64 `json:"trend_collapse" yaml:"trend_collapse"`
	Rotation     float64 `json:"rotation_disruption" yaml:"rotation_disruption"`
	Context      float64 `json:"historical_context" yaml:"historical_context"`
}

// Sum returns the total weight mass. A sum other than 1.0 is legal but
// moves the composite off the 0-100 scale; the engine surfaces that as
// a warning rather than an error.
func (w Weights) Sum() float64 {
	return w.Availability + w.Trend + w.Rotation + w.Context
}

// Of returns the weight for a component key, 0 for unknown keys.
func (w Weights) Of(key string) float64 {
	switch key {
	case KeyAvailability:
		return w.Availability
	case KeyTrend:
		return w.Trend
	case KeyRotation:
		return w.Rotation
	case KeyContext:
		return w.Context
	}
	return 0
}

// Boundaries are the ascending upper cut-points of the Green, Yellow
// and Orange bands. Scores above Orange classify Red.
type Boundaries struct {
	Green  float64 `json:"green" yaml:"green"`
	Yellow float64 `json:"yellow" yaml:"yellow"`
	Orange float64 `json:"orange" yaml:"orange"`
}

// Thresholds collects every scoring curve. All curves are exposed in
// configuration so calibration runs can adjust them without rebuilding.
type Thresholds struct {
	Availability AvailabilityThresholds `json:"availability" yaml:"availability"`
	Trend        TrendThresholds        `json:"trend_collapse" yaml:"trend_collapse"`
	Rotation     RotationThresholds     `json:"rotation_disruption" yaml:"rotation_disruption"`
	Context      ContextThresholds      `json:"historical_context" yaml:"historical_context"`
}

// AvailabilityThresholds configures the star-availability scorer.
type AvailabilityThresholds struct {
	AbsenceRate  Curve `json:"absence_rate" yaml:"absence_rate"`
	ClusterRatio Curve `json:"cluster_ratio" yaml:"cluster_ratio"`
	LossSkew     Curve `json:"loss_skew" yaml:"loss_skew"`
}

// TrendThresholds configures the trend-collapse scorer.
type TrendThresholds struct {
	RollingDecline   Curve `json:"rolling_decline" yaml:"rolling_decline"`
	PostElimCollapse Curve `json:"post_elim_collapse" yaml:"post_elim_collapse"`
	CloseGameDeficit Curve `json:"close_game_deficit" yaml:"close_game_deficit"`

	// CloseGameBaseline is the win percentage close games are measured
	// against before the deficit curve applies.
	CloseGameBaseline float64 `json:"close_game_baseline" yaml:"close_game_baseline"`
}

// RotationThresholds configures the rotation-disruption scorer.
type RotationThresholds struct {
	SignificantDecreases Curve   `json:"significant_decreases" yaml:"significant_decreases"`
	CorrelationDecline   Curve   `json:"correlation_decline" yaml:"correlation_decline"`
	Experimentation      Curve   `json:"experimentation" yaml:"experimentation"`
	PointsPerNewPlayer   float64 `json:"points_per_new_player" yaml:"points_per_new_player"`
	NewPlayerCap         float64 `json:"new_player_cap" yaml:"new_player_cap"`
}

// ContextThresholds configures the historical-context scorer.
type ContextThresholds struct {
	BaselineDeviation Curve `json:"baseline_deviation" yaml:"baseline_deviation"`
	PostBreakDropoff  Curve `json:"post_break_dropoff" yaml:"post_break_dropoff"`
	PostElimDeficit   Curve `json:"post_elim_deficit" yaml:"post_elim_deficit"`

	// PostElimBaseline is the win rate the post-elimination period is
	// measured against before the deficit curve applies.
	PostElimBaseline float64 `json:"post_elim_baseline" yaml:"post_elim_baseline"`
}

// Validate checks every curve in the set.
func (t Thresholds) Validate() error {
	curves := map[string]Curve{
		"availability.absence_rate":         t.Availability.AbsenceRate,
		"availability.cluster_ratio":        t.Availability.ClusterRatio,
		"availability.loss_skew":            t.Availability.LossSkew,
		"trend_collapse.rolling_decline":    t.Trend.RollingDecline,
		"trend_collapse.post_elim_collapse": t.Trend.PostElimCollapse,
		"trend_collapse.close_game_deficit": t.Trend.CloseGameDeficit,
		"rotation.significant_decreases":    t.Rotation.SignificantDecreases,
		"rotation.correlation_decline":      t.Rotation.CorrelationDecline,
		"rotation.experimentation":          t.Rotation.Experimentation,
		"historical.baseline_deviation":     t.Context.BaselineDeviation,
		"historical.post_break_dropoff":     t.Context.PostBreakDropoff,
		"historical.post_elim_deficit":      t.Context.PostElimDeficit,
	}
	for name, c := range curves {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// clampScore keeps a component score on the 0-100 scale.
func clampScore(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return round1(x)
}
