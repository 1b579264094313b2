package scoring

// DefaultWeights returns the calibrated composite weights.
func DefaultWeights() Weights {
	return Weights{
		Availability: 0.30,
		Trend:        0.25,
		Rotation:     0.25,
		Context:      0.20,
	}
}

// DefaultBoundaries returns the calibrated classification cut-points.
func DefaultBoundaries() Boundaries {
	return Boundaries{Green: 26, Yellow: 50, Orange: 75}
}

// DefaultThresholds returns the calibrated scoring curves.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Availability: AvailabilityThresholds{
			AbsenceRate: Curve{
				{X: 0.10, Points: 0},
				{X: 0.25, Points: 15},
				{X: 0.50, Points: 30},
				{X: 0.60, Points: 40},
			},
			ClusterRatio: Curve{
				{X: 1.0, Points: 0},
				{X: 1.5, Points: 10},
				{X: 2.0, Points: 20},
				{X: 3.0, Points: 30},
			},
			LossSkew: Curve{
				{X: 1.0, Points: 0},
				{X: 1.5, Points: 15},
				{X: 2.0, Points: 30},
			},
		},
		Trend: TrendThresholds{
			RollingDecline: Curve{
				{X: 5, Points: 5},
				{X: 10, Points: 20},
				{X: 15, Points: 35},
			},
			PostElimCollapse: Curve{
				{X: 0, Points: 0},
				{X: 3, Points: 10},
				{X: 5, Points: 20},
				{X: 8, Points: 35},
			},
			CloseGameDeficit: Curve{
				{X: 0, Points: 0},
				{X: 0.10, Points: 15},
				{X: 0.25, Points: 30},
			},
			CloseGameBaseline: 0.450,
		},
		Rotation: RotationThresholds{
			SignificantDecreases: Curve{
				{X: 0, Points: 0},
				{X: 2, Points: 20},
				{X: 3, Points: 20},
				{X: 5, Points: 35},
			},
			CorrelationDecline: Curve{
				{X: 0, Points: 0},
				{X: 0.15, Points: 10},
				{X: 0.30, Points: 25},
			},
			Experimentation: Curve{
				{X: 0, Points: 0},
				{X: 2, Points: 20},
			},
			PointsPerNewPlayer: 5,
			NewPlayerCap:       20,
		},
		Context: ContextThresholds{
			BaselineDeviation: Curve{
				{X: 0, Points: 0},
				{X: 2, Points: 30},
			},
			PostBreakDropoff: Curve{
				{X: 0, Points: 0},
				{X: 20, Points: 10},
				{X: 40, Points: 25},
				{X: 60, Points: 40},
			},
			PostElimDeficit: Curve{
				{X: 0, Points: 0},
				{X: 0.300, Points: 30},
			},
			PostElimBaseline: 0.400,
		},
	}
}

// DefaultScorers returns the standard component scorers wired with the
// given thresholds.
func DefaultScorers(t Thresholds) []Scorer {
	return []Scorer{
		&AvailabilityScorer{Thresholds: t.Availability},
		&TrendScorer{Thresholds: t.Trend},
		&RotationScorer{Thresholds: t.Rotation},
		&ContextScorer{Thresholds: t.Context},
	}
}
