package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vishai/nba-integrity/internal/store"
	"github.com/Vishai/nba-integrity/pkg/config"
	"github.com/Vishai/nba-integrity/pkg/scoring"
	"github.com/Vishai/nba-integrity/pkg/season"
)

const wizardsID = 1610612764

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Seasons.BaselineSeasons = nil
	return cfg
}

func testCase() season.Case {
	return season.Case{
		ID:         "T1",
		TeamID:     wizardsID,
		TeamAbbr:   "WAS",
		TeamName:   "Washington Wizards",
		Season:     "2023-24",
		Expected:   "Orange/Red",
		CutoffSeed: 8,
	}
}

// losingSeason builds 10 straight losses. With an 8th-seed cutoff of 6
// wins the team is mathematically eliminated at game 5.
func losingSeason() ([]season.Game, []season.PlayerGame, []season.Standing) {
	var games []season.Game
	var playerGames []season.PlayerGame
	for i := 1; i <= 10; i++ {
		net := -5.0
		g := season.Game{
			GameID:  fmt.Sprintf("G%03d", i),
			Date:    fmt.Sprintf("2024-01-%02d", i),
			Number:  i,
			Won:     false,
			Points:  100,
			Ratings: &season.Efficiency{Offensive: 105, Defensive: 110, Net: net},
		}
		games = append(games, g)
		if i <= 5 {
			playerGames = append(playerGames, season.PlayerGame{
				PlayerID:   10,
				PlayerName: "Test Player",
				GameID:     g.GameID,
				Date:       g.Date,
				Minutes:    36,
				NetRating:  &net,
			})
		}
	}

	standings := []season.Standing{
		{TeamID: wizardsID, TeamName: "Washington Wizards", Conference: "East", Wins: 0, Losses: 10},
	}
	for i := 1; i <= 8; i++ {
		standings = append(standings, season.Standing{
			TeamID:     int64(i),
			TeamName:   fmt.Sprintf("East Team %d", i),
			Conference: "East",
			Wins:       5 + i,
			Losses:     10 - i,
		})
	}
	return games, playerGames, standings
}

func writeExportDir(t *testing.T, games []season.Game, playerGames []season.PlayerGame, standings []season.Standing) string {
	t.Helper()
	dir := t.TempDir()
	for name, v := range map[string]any{
		season.DatasetGames:       games,
		season.DatasetPlayerGames: playerGames,
		season.DatasetPlayerBox:   playerGames,
		season.DatasetStandings:   standings,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newTestPipeline(t *testing.T) (*Pipeline, season.Case) {
	t.Helper()
	p, err := New(testConfig(), store.NewMemoryStore())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	c := testCase()
	games, playerGames, standings := losingSeason()
	dir := writeExportDir(t, games, playerGames, standings)
	if err := p.ImportDir(context.Background(), c, dir); err != nil {
		t.Fatalf("ImportDir() error: %v", err)
	}
	return p, c
}

func TestScoreEndToEnd(t *testing.T) {
	ctx := context.Background()
	p, c := newTestPipeline(t)

	result, err := p.Score(ctx, c, false)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	if result.CaseID != "T1" || result.Team != "Washington Wizards" {
		t.Errorf("result identity = %s/%s", result.CaseID, result.Team)
	}
	if len(result.Components) != 4 {
		t.Fatalf("Components = %d, want 4", len(result.Components))
	}
	if result.Composite < 0 || result.Composite > 100 {
		t.Errorf("Composite = %v, out of range", result.Composite)
	}
	if result.Classification == "" {
		t.Error("Classification empty")
	}

	// An all-loss season with post-elimination absences must not look
	// clean.
	var availability *scoring.ComponentResult
	for i := range result.Components {
		if result.Components[i].Key == scoring.KeyAvailability {
			availability = &result.Components[i]
		}
		if result.Components[i].Error != "" {
			t.Errorf("component %s carries error %q", result.Components[i].Key, result.Components[i].Error)
		}
	}
	if availability == nil {
		t.Fatal("availability component missing")
	}
	if availability.Score <= 0 {
		t.Errorf("availability score = %v, want > 0 for clustered absences", availability.Score)
	}

	// Recomputation is idempotent.
	again, err := p.Score(ctx, c, false)
	if err != nil {
		t.Fatalf("second Score() error: %v", err)
	}
	if again.Composite != result.Composite || again.Classification != result.Classification {
		t.Errorf("recompute drifted: %v/%s vs %v/%s",
			again.Composite, again.Classification, result.Composite, result.Classification)
	}

	cached, err := p.CachedResult(ctx, "T1")
	if err != nil {
		t.Fatalf("CachedResult() error: %v", err)
	}
	if cached.Composite != result.Composite {
		t.Errorf("cached Composite = %v, want %v", cached.Composite, result.Composite)
	}
}

func TestScoreFromExportTree(t *testing.T) {
	// The static-export source needs no import step: datasets are read
	// straight from the tree.
	ctx := context.Background()
	games, playerGames, standings := losingSeason()

	root := t.TempDir()
	teamDir := filepath.Join(root, "WAS", "2023-24")
	if err := os.MkdirAll(teamDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, v := range map[string]any{
		season.DatasetGames:       games,
		season.DatasetPlayerGames: playerGames,
		season.DatasetPlayerBox:   playerGames,
		season.DatasetStandings:   standings,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(teamDir, name+".json"), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	st, err := store.NewExportDir(root)
	if err != nil {
		t.Fatalf("NewExportDir() error: %v", err)
	}
	p, err := New(testConfig(), st)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	result, err := p.Score(ctx, testCase(), false)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if len(result.Components) != 4 {
		t.Fatalf("Components = %d, want 4", len(result.Components))
	}
	for _, cr := range result.Components {
		if cr.Error != "" {
			t.Errorf("component %s carries error %q", cr.Key, cr.Error)
		}
	}

	// Computed artifacts cache in memory, so a second run matches.
	again, err := p.Score(ctx, testCase(), false)
	if err != nil {
		t.Fatalf("second Score() error: %v", err)
	}
	if again.Composite != result.Composite {
		t.Errorf("cached composite = %v, first run %v", again.Composite, result.Composite)
	}
}

func TestComputeCaching(t *testing.T) {
	ctx := context.Background()
	p, c := newTestPipeline(t)

	cm, err := p.Compute(ctx, c, false)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if cm.Elimination == nil || !cm.Elimination.Eliminated {
		t.Fatalf("Elimination = %+v, want eliminated", cm.Elimination)
	}
	if cm.Elimination.GameNumber != 5 {
		t.Errorf("elimination game = %d, want 5", cm.Elimination.GameNumber)
	}

	// Replace the game log with an undefeated season. Without force
	// the cached bundles win; with force the new data is visible.
	games, playerGames, standings := losingSeason()
	for i := range games {
		games[i].Won = true
	}
	dir := writeExportDir(t, games, playerGames, standings)
	if err := p.ImportDir(ctx, c, dir); err != nil {
		t.Fatalf("ImportDir() error: %v", err)
	}

	cachedCM, err := p.Compute(ctx, c, false)
	if err != nil {
		t.Fatalf("cached Compute() error: %v", err)
	}
	if !cachedCM.Elimination.Eliminated {
		t.Error("cached Compute() should still see the losing season")
	}

	freshCM, err := p.Compute(ctx, c, true)
	if err != nil {
		t.Fatalf("forced Compute() error: %v", err)
	}
	if freshCM.Elimination.Eliminated {
		t.Errorf("forced Compute() elimination = %+v, want not eliminated", freshCM.Elimination)
	}
}

func TestRescoreCompositeOnly(t *testing.T) {
	ctx := context.Background()
	p, c := newTestPipeline(t)

	original, err := p.Score(ctx, c, false)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	var availabilityScore float64
	for _, cr := range original.Components {
		if cr.Key == scoring.KeyAvailability {
			availabilityScore = cr.Score
		}
	}

	rescored, err := p.Rescore(ctx, "T1",
		scoring.Weights{Availability: 1.0}, scoring.DefaultBoundaries())
	if err != nil {
		t.Fatalf("Rescore() error: %v", err)
	}
	if rescored.Composite != availabilityScore {
		t.Errorf("Rescore() composite = %v, want availability score %v",
			rescored.Composite, availabilityScore)
	}

	// The preview never touches the cached result.
	cached, err := p.CachedResult(ctx, "T1")
	if err != nil {
		t.Fatalf("CachedResult() error: %v", err)
	}
	if cached.Composite != original.Composite {
		t.Errorf("cached Composite = %v, changed by rescore", cached.Composite)
	}
}

func TestRescoreRejectsBadBoundaries(t *testing.T) {
	ctx := context.Background()
	p, c := newTestPipeline(t)
	if _, err := p.Score(ctx, c, false); err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	_, err := p.Rescore(ctx, "T1", scoring.DefaultWeights(),
		scoring.Boundaries{Green: 80, Yellow: 50, Orange: 75})
	if err == nil {
		t.Error("Rescore() with descending boundaries should error")
	}
}

func TestCachedResultNotFound(t *testing.T) {
	p, err := New(testConfig(), store.NewMemoryStore())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := p.CachedResult(context.Background(), "NOPE"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("CachedResult() error = %v, want ErrNotFound", err)
	}
}

func TestLoadInputsToleratesMissingDatasets(t *testing.T) {
	p, err := New(testConfig(), store.NewMemoryStore())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	in, err := p.LoadInputs(context.Background(), testCase())
	if err != nil {
		t.Fatalf("LoadInputs() error: %v", err)
	}
	if len(in.Games) != 0 || len(in.Standings) != 0 {
		t.Errorf("LoadInputs() on empty store = %+v, want empty inputs", in)
	}
}
