// Package store provides the caching layer for raw season datasets and
// computed metric results. Datasets are stored as JSON blobs keyed by
// team, season, and kind; computed results are keyed by case and
// component so the pipeline can skip recomputation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a dataset or computed record does not
// exist in the store.
var ErrNotFound = errors.New("not found")

// Component keys for computed records, beyond the scorer keys.
const (
	ComponentElimination = "elimination"
	ComponentComposite   = "composite"
)

// ComputedRecord is one cached computation for a case.
type ComputedRecord struct {
	ID         string          `json:"id"`
	CaseID     string          `json:"case_id"`
	TeamID     int64           `json:"team_id"`
	Season     string          `json:"season"`
	Component  string          `json:"component"`
	Data       json.RawMessage `json:"data"`
	Score      *float64        `json:"score,omitempty"`
	ComputedAt time.Time       `json:"computed_at"`
}

// Store is the caching contract shared by all backends.
type Store interface {
	// PutDataset stores (or replaces) a raw dataset blob.
	PutDataset(ctx context.Context, teamID int64, seasonLabel, kind string, data []byte) error

	// GetDataset retrieves a raw dataset blob, or ErrNotFound.
	GetDataset(ctx context.Context, teamID int64, seasonLabel, kind string) ([]byte, error)

	// HasDataset reports whether a dataset exists without loading it.
	HasDataset(ctx context.Context, teamID int64, seasonLabel, kind string) (bool, error)

	// PutComputed stores (or replaces) a computed record. The store
	// assigns ID and ComputedAt when they are zero.
	PutComputed(ctx context.Context, rec *ComputedRecord) error

	// GetComputed retrieves a computed record, or ErrNotFound.
	GetComputed(ctx context.Context, caseID, component string) (*ComputedRecord, error)

	// ListComputed returns all computed records for a case, most
	// recent first.
	ListComputed(ctx context.Context, caseID string) ([]ComputedRecord, error)

	// DeleteComputed removes all computed records for a case. Used by
	// force recompute.
	DeleteComputed(ctx context.Context, caseID string) error

	Close() error
}
