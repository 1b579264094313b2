package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Vishai/nba-integrity/pkg/season"
)

// ErrReadOnly is returned for dataset writes against a read-only
// backend.
var ErrReadOnly = errors.New("store is read-only")

// ExportDirStore serves raw datasets directly from a season export
// tree on disk, with no import step. The tree uses the archive layout,
// one JSON file per dataset under ABBR/season/kind.json. Dataset
// writes are rejected; computed artifacts are held in memory for the
// process lifetime, so every run recomputes from the exports.
type ExportDirStore struct {
	root string
	*MemoryStore
}

// NewExportDir opens a read-only store over an export tree.
func NewExportDir(root string) (*ExportDirStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open export directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open export directory: %s is not a directory", root)
	}
	return &ExportDirStore{root: root, MemoryStore: NewMemoryStore()}, nil
}

// datasetPath resolves a dataset key to a file in the tree. League-wide
// datasets carry no franchise id and sit under whichever team directory
// the export produced, so they are located by scanning the season.
func (s *ExportDirStore) datasetPath(teamID int64, seasonLabel, kind string) (string, error) {
	if t, ok := season.TeamByID(teamID); ok {
		path := filepath.Join(s.root, t.Abbr, seasonLabel, kind+".json")
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("dataset %s for team %s season %s: %w", kind, t.Abbr, seasonLabel, ErrNotFound)
		}
		return path, nil
	}
	matches, err := filepath.Glob(filepath.Join(s.root, "*", seasonLabel, kind+".json"))
	if err != nil {
		return "", fmt.Errorf("scan export directory: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("dataset %s for season %s: %w", kind, seasonLabel, ErrNotFound)
	}
	return matches[0], nil
}

func (s *ExportDirStore) PutDataset(_ context.Context, teamID int64, seasonLabel, kind string, _ []byte) error {
	return fmt.Errorf("put dataset %s for team %d season %s: %w", kind, teamID, seasonLabel, ErrReadOnly)
}

func (s *ExportDirStore) GetDataset(_ context.Context, teamID int64, seasonLabel, kind string) ([]byte, error) {
	path, err := s.datasetPath(teamID, seasonLabel, kind)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export dataset: %w", err)
	}
	return data, nil
}

func (s *ExportDirStore) HasDataset(_ context.Context, teamID int64, seasonLabel, kind string) (bool, error) {
	_, err := s.datasetPath(teamID, seasonLabel, kind)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
