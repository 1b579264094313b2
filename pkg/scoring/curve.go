package scoring

import "fmt"

// CurvePoint is one breakpoint of a piecewise-linear scoring curve.
type CurvePoint struct {
	X      float64 `json:"x" yaml:"x"`
	Points float64 `json:"points" yaml:"points"`
}

// Curve maps a raw factor value to penalty points. Below the first
// breakpoint the curve yields 0, between breakpoints it interpolates
// linearly, and past the last breakpoint it stays flat. A first
// breakpoint with nonzero Points therefore produces a deliberate jump
// at the activation threshold.
type Curve []CurvePoint

// Eval returns the penalty points for x.
func (c Curve) Eval(x float64) float64 {
	if len(c) == 0 || x < c[0].X {
		return 0
	}
	for i := 1; i < len(c); i++ {
		if x < c[i].X {
			prev, next := c[i-1], c[i]
			frac := (x - prev.X) / (next.X - prev.X)
			return prev.Points + frac*(next.Points-prev.Points)
		}
	}
	return c[len(c)-1].Points
}

// Validate checks that breakpoints are strictly ascending in X and
// carry non-negative points.
func (c Curve) Validate() error {
	for i, p := range c {
		if p.Points < 0 {
			return fmt.Errorf("curve point %d: negative points %v", i, p.Points)
		}
		if i > 0 && p.X <= c[i-1].X {
			return fmt.Errorf("curve point %d: breakpoints must ascend, %v after %v", i, p.X, c[i-1].X)
		}
	}
	return nil
}
