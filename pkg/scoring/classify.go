package scoring

import "fmt"

// Classifier maps composite scores to severity labels. Cut-points are
// upper-inclusive: a score exactly on a boundary takes the lower band.
type Classifier struct {
	bounds Boundaries
}

// NewClassifier validates that the cut-points ascend strictly.
func NewClassifier(b Boundaries) (*Classifier, error) {
	if b.Green >= b.Yellow || b.Yellow >= b.Orange {
		return nil, fmt.Errorf("classification boundaries must ascend: green %v, yellow %v, orange %v",
			b.Green, b.Yellow, b.Orange)
	}
	if b.Green < 0 {
		return nil, fmt.Errorf("green boundary must be non-negative, got %v", b.Green)
	}
	return &Classifier{bounds: b}, nil
}

// DefaultClassifier returns a classifier on the calibrated cut-points.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultBoundaries())
	if err != nil {
		panic(err) // defaults are static and always valid
	}
	return c
}

// Classify returns the label for a composite score.
func (c *Classifier) Classify(score float64) string {
	switch {
	case score <= c.bounds.Green:
		return LabelGreen
	case score <= c.bounds.Yellow:
		return LabelYellow
	case score <= c.bounds.Orange:
		return LabelOrange
	default:
		return LabelRed
	}
}

// Boundaries returns the classifier's cut-points.
func (c *Classifier) Boundaries() Boundaries {
	return c.bounds
}
