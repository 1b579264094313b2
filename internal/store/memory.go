package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[string][]byte
	computed map[string]ComputedRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets: make(map[string][]byte),
		computed: make(map[string]ComputedRecord),
	}
}

func datasetKey(teamID int64, seasonLabel, kind string) string {
	return fmt.Sprintf("%d/%s/%s", teamID, seasonLabel, kind)
}

func computedKey(caseID, component string) string {
	return caseID + "/" + component
}

func (s *MemoryStore) PutDataset(_ context.Context, teamID int64, seasonLabel, kind string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.datasets[datasetKey(teamID, seasonLabel, kind)] = cp
	return nil
}

func (s *MemoryStore) GetDataset(_ context.Context, teamID int64, seasonLabel, kind string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.datasets[datasetKey(teamID, seasonLabel, kind)]
	if !ok {
		return nil, fmt.Errorf("dataset %s for team %d season %s: %w", kind, teamID, seasonLabel, ErrNotFound)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryStore) HasDataset(_ context.Context, teamID int64, seasonLabel, kind string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.datasets[datasetKey(teamID, seasonLabel, kind)]
	return ok, nil
}

func (s *MemoryStore) PutComputed(_ context.Context, rec *ComputedRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ComputedAt.IsZero() {
		rec.ComputedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.computed[computedKey(rec.CaseID, rec.Component)] = *rec
	return nil
}

func (s *MemoryStore) GetComputed(_ context.Context, caseID, component string) (*ComputedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.computed[computedKey(caseID, component)]
	if !ok {
		return nil, fmt.Errorf("computed %s for case %s: %w", component, caseID, ErrNotFound)
	}
	return &rec, nil
}

func (s *MemoryStore) ListComputed(_ context.Context, caseID string) ([]ComputedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var recs []ComputedRecord
	for _, rec := range s.computed {
		if rec.CaseID == caseID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].ComputedAt.After(recs[j].ComputedAt)
	})
	return recs, nil
}

func (s *MemoryStore) DeleteComputed(_ context.Context, caseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rec := range s.computed {
		if rec.CaseID == caseID {
			delete(s.computed, key)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
