package scoring

import (
	"fmt"
	"math"

	"github.com/Vishai/nba-integrity/pkg/metrics"
	"github.com/Vishai/nba-integrity/pkg/season"
)

// Scorer is the interface all component scorers implement.
type Scorer interface {
	// Key returns the machine-readable component identifier.
	Key() string
	// Name returns the human-readable component name.
	Name() string
	// Evaluate computes the component score for one case's metrics.
	Evaluate(cm *metrics.CaseMetrics) ComponentResult
}

// Engine runs all configured scorers and produces a CaseResult.
type Engine struct {
	scorers    []Scorer
	weights    Weights
	classifier *Classifier
}

// NewEngine creates a scoring engine.
func NewEngine(weights Weights, classifier *Classifier, scorers ...Scorer) *Engine {
	return &Engine{scorers: scorers, weights: weights, classifier: classifier}
}

// NewDefaultEngine creates an engine on the calibrated weights, curves
// and classification boundaries.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultWeights(), DefaultClassifier(), DefaultScorers(DefaultThresholds())...)
}

// Score evaluates every component and produces the weighted composite.
// Components whose metrics carry an error marker score 0 but stay in
// the breakdown with the marker attached.
func (e *Engine) Score(c season.Case, cm *metrics.CaseMetrics) (*CaseResult, error) {
	if cm == nil {
		return nil, fmt.Errorf("no metrics for case %s", c.ID)
	}

	result := &CaseResult{
		CaseID:   c.ID,
		Team:     c.TeamName,
		Season:   c.Season,
		Expected: c.Expected,
	}

	var composite float64
	for _, s := range e.scorers {
		cr := s.Evaluate(cm)
		cr.Weight = e.weights.Of(cr.Key)
		cr.Weighted = round1(cr.Score * cr.Weight)
		composite += cr.Score * cr.Weight
		result.Components = append(result.Components, cr)

		if cr.Error != "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s scored 0: %s", cr.Name, cr.Error))
		}
	}

	if sum := e.weights.Sum(); math.Abs(sum-1.0) > 1e-9 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("component weights sum to %.2f, not 1.00; composite is off the 0-100 scale", sum))
	}

	result.Composite = round1(composite)
	result.Classification = e.classifier.Classify(result.Composite)
	if c.Expected != "" {
		result.ExpectedMatch = c.ExpectedMatches(result.Classification)
	}
	return result, nil
}

// Reweight recomputes a composite and classification from an existing
// breakdown without re-running the component scorers. Calibration uses
// this to preview weight and boundary changes against cached component
// scores.
func Reweight(components []ComponentResult, weights Weights, classifier *Classifier) (float64, string, []string) {
	var composite float64
	var warnings []string
	for i := range components {
		components[i].Weight = weights.Of(components[i].Key)
		components[i].Weighted = round1(components[i].Score * components[i].Weight)
		composite += components[i].Score * components[i].Weight
	}
	if sum := weights.Sum(); math.Abs(sum-1.0) > 1e-9 {
		warnings = append(warnings,
			fmt.Sprintf("component weights sum to %.2f, not 1.00; composite is off the 0-100 scale", sum))
	}
	composite = round1(composite)
	return composite, classifier.Classify(composite), warnings
}
