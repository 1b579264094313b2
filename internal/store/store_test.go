package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlitePath := filepath.Join(t.TempDir(), "cache.db")
	sqliteStore, err := OpenSQLite(sqlitePath)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte(`[{"game_id":"G001","won":true}]`)

			ok, err := s.HasDataset(ctx, 1610612764, "2023-24", "team_game_logs")
			if err != nil || ok {
				t.Fatalf("HasDataset() before put = %v, %v; want false, nil", ok, err)
			}

			if _, err := s.GetDataset(ctx, 1610612764, "2023-24", "team_game_logs"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("GetDataset() before put error = %v, want ErrNotFound", err)
			}

			if err := s.PutDataset(ctx, 1610612764, "2023-24", "team_game_logs", payload); err != nil {
				t.Fatalf("PutDataset() error: %v", err)
			}

			got, err := s.GetDataset(ctx, 1610612764, "2023-24", "team_game_logs")
			if err != nil {
				t.Fatalf("GetDataset() error: %v", err)
			}
			if string(got) != string(payload) {
				t.Errorf("GetDataset() = %s, want %s", got, payload)
			}

			ok, err = s.HasDataset(ctx, 1610612764, "2023-24", "team_game_logs")
			if err != nil || !ok {
				t.Errorf("HasDataset() after put = %v, %v; want true, nil", ok, err)
			}

			// Same team, different kind is a different key.
			ok, _ = s.HasDataset(ctx, 1610612764, "2023-24", "standings")
			if ok {
				t.Error("HasDataset() for unstored kind = true")
			}
		})
	}
}

func TestDatasetReplace(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.PutDataset(ctx, 1, "2023-24", "standings", []byte("old")); err != nil {
				t.Fatalf("PutDataset() error: %v", err)
			}
			if err := s.PutDataset(ctx, 1, "2023-24", "standings", []byte("new")); err != nil {
				t.Fatalf("PutDataset() replace error: %v", err)
			}
			got, err := s.GetDataset(ctx, 1, "2023-24", "standings")
			if err != nil {
				t.Fatalf("GetDataset() error: %v", err)
			}
			if string(got) != "new" {
				t.Errorf("GetDataset() after replace = %s, want new", got)
			}
		})
	}
}

func TestComputedRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			score := 62.5
			rec := &ComputedRecord{
				CaseID:    "D",
				TeamID:    1610612764,
				Season:    "2023-24",
				Component: "availability",
				Data:      json.RawMessage(`{"absence_rate":0.4}`),
				Score:     &score,
			}
			if err := s.PutComputed(ctx, rec); err != nil {
				t.Fatalf("PutComputed() error: %v", err)
			}
			if rec.ID == "" {
				t.Error("PutComputed() did not assign an ID")
			}
			if rec.ComputedAt.IsZero() {
				t.Error("PutComputed() did not assign ComputedAt")
			}

			got, err := s.GetComputed(ctx, "D", "availability")
			if err != nil {
				t.Fatalf("GetComputed() error: %v", err)
			}
			if got.ID != rec.ID || got.Season != "2023-24" || got.TeamID != 1610612764 {
				t.Errorf("GetComputed() = %+v, want fields of %+v", got, rec)
			}
			if got.Score == nil || *got.Score != 62.5 {
				t.Errorf("GetComputed() Score = %v, want 62.5", got.Score)
			}

			var data map[string]float64
			if err := json.Unmarshal(got.Data, &data); err != nil {
				t.Fatalf("stored data is not valid JSON: %v", err)
			}
			if data["absence_rate"] != 0.4 {
				t.Errorf("data[absence_rate] = %v, want 0.4", data["absence_rate"])
			}
		})
	}
}

func TestComputedReplaceKeepsOneRecord(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			first := &ComputedRecord{CaseID: "A", TeamID: 1, Season: "2023-24",
				Component: "composite", Data: json.RawMessage(`{"v":1}`)}
			second := &ComputedRecord{CaseID: "A", TeamID: 1, Season: "2023-24",
				Component: "composite", Data: json.RawMessage(`{"v":2}`)}

			if err := s.PutComputed(ctx, first); err != nil {
				t.Fatalf("PutComputed() error: %v", err)
			}
			if err := s.PutComputed(ctx, second); err != nil {
				t.Fatalf("PutComputed() replace error: %v", err)
			}

			recs, err := s.ListComputed(ctx, "A")
			if err != nil {
				t.Fatalf("ListComputed() error: %v", err)
			}
			if len(recs) != 1 {
				t.Fatalf("ListComputed() returned %d records, want 1", len(recs))
			}
			if string(recs[0].Data) != `{"v":2}` {
				t.Errorf("kept record data = %s, want replacement", recs[0].Data)
			}
		})
	}
}

func TestListAndDeleteComputed(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, component := range []string{"elimination", "availability", "trend_collapse"} {
				rec := &ComputedRecord{CaseID: "B", TeamID: 2, Season: "2024-25",
					Component: component, Data: json.RawMessage(`{}`)}
				if err := s.PutComputed(ctx, rec); err != nil {
					t.Fatalf("PutComputed(%s) error: %v", component, err)
				}
			}
			// A different case should not leak into B's listing.
			other := &ComputedRecord{CaseID: "C", TeamID: 3, Season: "2024-25",
				Component: "elimination", Data: json.RawMessage(`{}`)}
			if err := s.PutComputed(ctx, other); err != nil {
				t.Fatalf("PutComputed() error: %v", err)
			}

			recs, err := s.ListComputed(ctx, "B")
			if err != nil {
				t.Fatalf("ListComputed() error: %v", err)
			}
			if len(recs) != 3 {
				t.Fatalf("ListComputed() returned %d records, want 3", len(recs))
			}

			if err := s.DeleteComputed(ctx, "B"); err != nil {
				t.Fatalf("DeleteComputed() error: %v", err)
			}
			recs, err = s.ListComputed(ctx, "B")
			if err != nil {
				t.Fatalf("ListComputed() after delete error: %v", err)
			}
			if len(recs) != 0 {
				t.Errorf("ListComputed() after delete returned %d records, want 0", len(recs))
			}

			// Case C survives.
			if _, err := s.GetComputed(ctx, "C", "elimination"); err != nil {
				t.Errorf("GetComputed() for untouched case error: %v", err)
			}
		})
	}
}
