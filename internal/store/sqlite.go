package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS datasets (
	team_id      INTEGER NOT NULL,
	season       TEXT NOT NULL,
	kind         TEXT NOT NULL,
	data         BLOB NOT NULL,
	updated_at   TEXT NOT NULL,
	PRIMARY KEY (team_id, season, kind)
);

CREATE TABLE IF NOT EXISTS computed_metrics (
	id           TEXT NOT NULL,
	case_id      TEXT NOT NULL,
	team_id      INTEGER NOT NULL,
	season       TEXT NOT NULL,
	component    TEXT NOT NULL,
	data_json    TEXT NOT NULL,
	score        REAL,
	computed_at  TEXT NOT NULL,
	PRIMARY KEY (case_id, component)
);
`

// SQLiteStore is a file-backed Store for local, single-user runs.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) PutDataset(ctx context.Context, teamID int64, seasonLabel, kind string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO datasets (team_id, season, kind, data, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		teamID, seasonLabel, kind, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put dataset %s: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) GetDataset(ctx context.Context, teamID int64, seasonLabel, kind string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM datasets WHERE team_id = ? AND season = ? AND kind = ?`,
		teamID, seasonLabel, kind).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dataset %s for team %d season %s: %w", kind, teamID, seasonLabel, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset %s: %w", kind, err)
	}
	return data, nil
}

func (s *SQLiteStore) HasDataset(ctx context.Context, teamID int64, seasonLabel, kind string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM datasets WHERE team_id = ? AND season = ? AND kind = ? LIMIT 1`,
		teamID, seasonLabel, kind).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check dataset %s: %w", kind, err)
	}
	return true, nil
}

func (s *SQLiteStore) PutComputed(ctx context.Context, rec *ComputedRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ComputedAt.IsZero() {
		rec.ComputedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO computed_metrics
		 (id, case_id, team_id, season, component, data_json, score, computed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CaseID, rec.TeamID, rec.Season, rec.Component,
		string(rec.Data), rec.Score, rec.ComputedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put computed %s for case %s: %w", rec.Component, rec.CaseID, err)
	}
	return nil
}

func (s *SQLiteStore) GetComputed(ctx context.Context, caseID, component string) (*ComputedRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, case_id, team_id, season, component, data_json, score, computed_at
		 FROM computed_metrics WHERE case_id = ? AND component = ?`,
		caseID, component)
	rec, err := scanComputed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("computed %s for case %s: %w", component, caseID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get computed %s: %w", component, err)
	}
	return rec, nil
}

func (s *SQLiteStore) ListComputed(ctx context.Context, caseID string) ([]ComputedRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, team_id, season, component, data_json, score, computed_at
		 FROM computed_metrics WHERE case_id = ? ORDER BY computed_at DESC`,
		caseID)
	if err != nil {
		return nil, fmt.Errorf("list computed for case %s: %w", caseID, err)
	}
	defer rows.Close()

	var recs []ComputedRecord
	for rows.Next() {
		rec, err := scanComputed(rows)
		if err != nil {
			return nil, fmt.Errorf("scan computed record: %w", err)
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) DeleteComputed(ctx context.Context, caseID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM computed_metrics WHERE case_id = ?`, caseID); err != nil {
		return fmt.Errorf("delete computed for case %s: %w", caseID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComputed(row rowScanner) (*ComputedRecord, error) {
	var (
		rec      ComputedRecord
		dataJSON string
		at       string
	)
	if err := row.Scan(&rec.ID, &rec.CaseID, &rec.TeamID, &rec.Season,
		&rec.Component, &dataJSON, &rec.Score, &at); err != nil {
		return nil, err
	}
	rec.Data = []byte(dataJSON)
	ts, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return nil, fmt.Errorf("parse computed_at %q: %w", at, err)
	}
	rec.ComputedAt = ts
	return &rec, nil
}
