package season

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dataset kinds used by stores, archives, and export directories.
const (
	DatasetGames       = "team_game_logs"
	DatasetPlayerGames = "player_game_logs"
	DatasetPlayerBox   = "player_box_scores"
	DatasetStandings   = "standings"
)

// SaveJSON writes any dataset to disk as indented JSON, creating parent
// directories as needed.
func SaveJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for dataset: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling dataset: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	return nil
}

// LoadGames reads a game-log dataset and normalizes ordering and the
// dense game-number sequence.
func LoadGames(path string) ([]Game, error) {
	var games []Game
	if err := loadJSON(path, &games); err != nil {
		return nil, err
	}
	SortGames(games)
	return games, nil
}

// LoadPlayerGames reads a player-game dataset.
func LoadPlayerGames(path string) ([]PlayerGame, error) {
	var pgs []PlayerGame
	if err := loadJSON(path, &pgs); err != nil {
		return nil, err
	}
	return pgs, nil
}

// LoadStandings reads a season-end standings dataset.
func LoadStandings(path string) ([]Standing, error) {
	var rows []Standing
	if err := loadJSON(path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshaling dataset %s: %w", filepath.Base(path), err)
	}
	return nil
}
