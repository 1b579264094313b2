// Package config handles loading and managing integrity-index
// configuration: scoring calibration, season calendar anchors, and
// local cache locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Vishai/nba-integrity/pkg/scoring"
	"github.com/Vishai/nba-integrity/pkg/season"
)

// Config is the top-level configuration.
type Config struct {
	Scoring ScoringConfig `yaml:"scoring"`
	Seasons SeasonsConfig `yaml:"seasons"`
	Data    DataConfig    `yaml:"data"`
}

// ScoringConfig carries the full scoring calibration. Every value here
// can be overridden from the config file or a calibration request.
type ScoringConfig struct {
	Weights    scoring.Weights    `yaml:"weights"`
	Boundaries scoring.Boundaries `yaml:"boundaries"`
	Thresholds scoring.Thresholds `yaml:"thresholds"`
}

// SeasonsConfig holds calendar anchors and the historical baseline.
// Milestone maps are keyed by season label ("2023-24"); a season absent
// from a map simply has no such milestone on record.
type SeasonsConfig struct {
	BaselineSeasons []string          `yaml:"baseline_seasons"`
	AllStarBreaks   map[string]string `yaml:"all_star_breaks"`
	TradeDeadlines  map[string]string `yaml:"trade_deadlines"`
}

// MilestonesFor returns the calendar anchors known for a season.
func (s SeasonsConfig) MilestonesFor(label string) season.Milestones {
	return season.Milestones{
		AllStarBreak:  s.AllStarBreaks[label],
		TradeDeadline: s.TradeDeadlines[label],
	}
}

// DataConfig controls where raw datasets and computed results live.
type DataConfig struct {
	// Dir overrides the default cache directory when set.
	Dir string `yaml:"dir"`
	// DatabaseURL switches the store to Postgres when set. The
	// INTEGRITY_DATABASE_URL environment variable takes precedence.
	DatabaseURL string `yaml:"database_url"`
	// ExportDir selects the read-only static-export source: datasets
	// are read straight from a season export tree instead of the cache
	// database, and nothing persists between runs. Takes precedence
	// over DatabaseURL.
	ExportDir string `yaml:"export_dir"`
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights:    scoring.DefaultWeights(),
			Boundaries: scoring.DefaultBoundaries(),
			Thresholds: scoring.DefaultThresholds(),
		},
		Seasons: SeasonsConfig{
			BaselineSeasons: DefaultBaselineSeasons(),
			AllStarBreaks: map[string]string{
				"2013-14": "2014-02-14",
				"2014-15": "2015-02-13",
				"2015-16": "2016-02-12",
				"2019-20": "2020-02-14",
				"2022-23": "2023-02-17",
				"2023-24": "2024-02-16",
				"2024-25": "2025-02-14",
			},
			TradeDeadlines: map[string]string{
				"2013-14": "2014-02-20",
				"2014-15": "2015-02-19",
				"2015-16": "2016-02-18",
				"2019-20": "2020-02-06",
				"2022-23": "2023-02-09",
				"2023-24": "2024-02-08",
				"2024-25": "2025-02-06",
			},
		},
	}
}

// DefaultBaselineSeasons returns the 20 seasons ending with 2023-24
// that anchor the historical bottom-tier baseline.
func DefaultBaselineSeasons() []string {
	seasons := make([]string, 0, 20)
	for start := 2004; start <= 2023; start++ {
		seasons = append(seasons, fmt.Sprintf("%d-%02d", start, (start+1)%100))
	}
	return seasons
}

// Load reads a config file from the given path. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the scoring calibration.
func (c *Config) Validate() error {
	if _, err := scoring.NewClassifier(c.Scoring.Boundaries); err != nil {
		return err
	}
	return c.Scoring.Thresholds.Validate()
}

// Engine builds a scoring engine from the configured calibration.
func (c *Config) Engine() (*scoring.Engine, error) {
	classifier, err := scoring.NewClassifier(c.Scoring.Boundaries)
	if err != nil {
		return nil, err
	}
	scorers := scoring.DefaultScorers(c.Scoring.Thresholds)
	return scoring.NewEngine(c.Scoring.Weights, classifier, scorers...), nil
}

// FindConfigFile looks for .integrity/config.yaml in the given
// directory and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".integrity", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the local cache root. Uses ~/.cache/nba-integrity/
// to keep datasets out of working directories.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "nba-integrity")
}

// DatasetDir returns the raw dataset directory for one team-season.
func DatasetDir(cacheDir, teamAbbr, seasonLabel string) string {
	return filepath.Join(cacheDir, "datasets", teamAbbr+"_"+seasonLabel)
}

// ResultsDir returns the computed result directory.
func ResultsDir(cacheDir string) string {
	return filepath.Join(cacheDir, "results")
}
