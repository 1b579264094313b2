// Package archive provides durable blob storage for season datasets
// and computed case results, so expensive ingests can be shared across
// machines. Backends: local filesystem, S3, GCS.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Client abstracts blob storage for dataset and result archives.
type Client interface {
	PutDataset(ctx context.Context, teamAbbr, seasonLabel, kind string, data []byte) error
	GetDataset(ctx context.Context, teamAbbr, seasonLabel, kind string) ([]byte, error)
	PutResult(ctx context.Context, caseID string, data []byte) error
	GetResult(ctx context.Context, caseID string) ([]byte, error)
}

// LocalArchive implements Client using the local filesystem.
// Useful for development and testing.
type LocalArchive struct {
	BaseDir string
}

// NewLocalArchive creates a LocalArchive rooted at the given directory.
func NewLocalArchive(baseDir string) *LocalArchive {
	return &LocalArchive{BaseDir: baseDir}
}

func datasetKey(teamAbbr, seasonLabel, kind string) string {
	return strings.ToUpper(teamAbbr) + "/" + seasonLabel + "/" + kind + ".json"
}

func resultKey(caseID string) string {
	return "results/" + strings.ToUpper(caseID) + ".json"
}

func (a *LocalArchive) put(key string, data []byte) error {
	path := filepath.Join(a.BaseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (a *LocalArchive) get(key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(a.BaseDir, filepath.FromSlash(key)))
}

// PutDataset stores a raw dataset blob.
func (a *LocalArchive) PutDataset(_ context.Context, teamAbbr, seasonLabel, kind string, data []byte) error {
	return a.put(datasetKey(teamAbbr, seasonLabel, kind), data)
}

// GetDataset retrieves a raw dataset blob.
func (a *LocalArchive) GetDataset(_ context.Context, teamAbbr, seasonLabel, kind string) ([]byte, error) {
	return a.get(datasetKey(teamAbbr, seasonLabel, kind))
}

// PutResult stores a scored case result.
func (a *LocalArchive) PutResult(_ context.Context, caseID string, data []byte) error {
	return a.put(resultKey(caseID), data)
}

// GetResult retrieves a scored case result.
func (a *LocalArchive) GetResult(_ context.Context, caseID string) ([]byte, error) {
	return a.get(resultKey(caseID))
}
