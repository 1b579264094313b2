package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Vishai/nba-integrity/internal/platform"
)

// PostgresStore is a Postgres-backed Store for the API server, where
// multiple workers share one cache.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to Postgres, runs pending migrations, and
// returns the store.
func OpenPostgres(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := platform.AutoMigrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an already-migrated database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) PutDataset(ctx context.Context, teamID int64, seasonLabel, kind string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (team_id, season, kind, data, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (team_id, season, kind) DO UPDATE
		   SET data = EXCLUDED.data, updated_at = now()`,
		teamID, seasonLabel, kind, data)
	if err != nil {
		return fmt.Errorf("put dataset %s: %w", kind, err)
	}
	return nil
}

func (s *PostgresStore) GetDataset(ctx context.Context, teamID int64, seasonLabel, kind string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM datasets WHERE team_id = $1 AND season = $2 AND kind = $3`,
		teamID, seasonLabel, kind).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dataset %s for team %d season %s: %w", kind, teamID, seasonLabel, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset %s: %w", kind, err)
	}
	return data, nil
}

func (s *PostgresStore) HasDataset(ctx context.Context, teamID int64, seasonLabel, kind string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM datasets WHERE team_id = $1 AND season = $2 AND kind = $3 LIMIT 1`,
		teamID, seasonLabel, kind).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check dataset %s: %w", kind, err)
	}
	return true, nil
}

func (s *PostgresStore) PutComputed(ctx context.Context, rec *ComputedRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ComputedAt.IsZero() {
		rec.ComputedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO computed_metrics
		 (id, case_id, team_id, season, component, data_json, score, computed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (case_id, component) DO UPDATE
		   SET id = EXCLUDED.id,
		       data_json = EXCLUDED.data_json,
		       score = EXCLUDED.score,
		       computed_at = EXCLUDED.computed_at`,
		rec.ID, rec.CaseID, rec.TeamID, rec.Season, rec.Component,
		string(rec.Data), rec.Score, rec.ComputedAt)
	if err != nil {
		return fmt.Errorf("put computed %s for case %s: %w", rec.Component, rec.CaseID, err)
	}
	return nil
}

func (s *PostgresStore) GetComputed(ctx context.Context, caseID, component string) (*ComputedRecord, error) {
	var (
		rec      ComputedRecord
		dataJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, case_id, team_id, season, component, data_json, score, computed_at
		 FROM computed_metrics WHERE case_id = $1 AND component = $2`,
		caseID, component).Scan(&rec.ID, &rec.CaseID, &rec.TeamID, &rec.Season,
		&rec.Component, &dataJSON, &rec.Score, &rec.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("computed %s for case %s: %w", component, caseID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get computed %s: %w", component, err)
	}
	rec.Data = []byte(dataJSON)
	return &rec, nil
}

func (s *PostgresStore) ListComputed(ctx context.Context, caseID string) ([]ComputedRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, team_id, season, component, data_json, score, computed_at
		 FROM computed_metrics WHERE case_id = $1 ORDER BY computed_at DESC`,
		caseID)
	if err != nil {
		return nil, fmt.Errorf("list computed for case %s: %w", caseID, err)
	}
	defer rows.Close()

	var recs []ComputedRecord
	for rows.Next() {
		var (
			rec      ComputedRecord
			dataJSON string
		)
		if err := rows.Scan(&rec.ID, &rec.CaseID, &rec.TeamID, &rec.Season,
			&rec.Component, &dataJSON, &rec.Score, &rec.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan computed record: %w", err)
		}
		rec.Data = []byte(dataJSON)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *PostgresStore) DeleteComputed(ctx context.Context, caseID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM computed_metrics WHERE case_id = $1`, caseID); err != nil {
		return fmt.Errorf("delete computed for case %s: %w", caseID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }
