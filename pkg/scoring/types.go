// Package scoring implements the integrity-index scoring engine. It
// evaluates extracted season metrics and produces explainable,
// evidence-backed component scores and a weighted composite.
package scoring

// Classification labels, ordered from benign to severe.
const (
	LabelGreen  = "Green"
	LabelYellow = "Yellow"
	LabelOrange = "Orange"
	LabelRed    = "Red"
)

// Component keys, also used as cache keys by the storage layer.
const (
	KeyAvailability = "availability"
	KeyTrend        = "trend_collapse"
	KeyRotation     = "rotation_disruption"
	KeyContext      = "historical_context"
)

// CaseResult is the complete output of scoring one team-season.
// Immutable once computed.
type CaseResult struct {
	CaseID         string            `json:"case_id"`
	Team           string            `json:"team"`
	Season         string            `json:"season"`
	Composite      float64           `json:"composite_score"`
	Classification string            `json:"classification"`
	Expected       string            `json:"expected_classification,omitempty"`
	ExpectedMatch  bool              `json:"expected_match,omitempty"`
	Components     []ComponentResult `json:"components"`
	Warnings       []string          `json:"warnings,omitempty"`
}

// ComponentResult is the output of a single component scorer.
type ComponentResult struct {
	Key      string    `json:"key"`      // machine key: "trend_collapse"
	Name     string    `json:"name"`     // human name: "Trend collapse"
	Score    float64   `json:"score"`    // 0-100 after clamping
	Weight   float64   `json:"weight"`   // composite weight applied
	Weighted float64   `json:"weighted"` // Score * Weight
	Severity Severity  `json:"severity"`
	Findings []Finding `json:"findings,omitempty"`
	Error    string    `json:"error,omitempty"` // bundle error marker, score is 0
}

// Finding is a single scored factor backing a component score.
type Finding struct {
	Factor  string  `json:"factor"`
	Summary string  `json:"summary"`
	Value   float64 `json:"value"`
	Points  float64 `json:"points"`
}

// Severity indicates how concerning a component score is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
	SeverityInfo   Severity = "INFO"
)

func severityForScore(score float64) Severity {
	switch {
	case score >= 50:
		return SeverityHigh
	case score >= 25:
		return SeverityMedium
	case score > 0:
		return SeverityLow
	default:
		return SeverityInfo
	}
}
