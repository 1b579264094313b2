package season_test

import (
	"testing"

	"github.com/Vishai/nba-integrity/pkg/season"
)

func TestSortGamesRenumbers(t *testing.T) {
	games := []season.Game{
		{GameID: "B", Date: "2024-01-02", Number: 99},
		{GameID: "C", Date: "2024-01-03"},
		{GameID: "A", Date: "2024-01-01"},
	}
	season.SortGames(games)

	wantIDs := []string{"A", "B", "C"}
	for i, g := range games {
		if g.GameID != wantIDs[i] {
			t.Errorf("game %d: expected %s, got %s", i, wantIDs[i], g.GameID)
		}
		if g.Number != i+1 {
			t.Errorf("game %s: expected number %d, got %d", g.GameID, i+1, g.Number)
		}
	}
}

func TestRecordAndWinRate(t *testing.T) {
	games := seasonOf(true, false, true, true)
	w, l := season.Record(games)
	if w != 3 || l != 1 {
		t.Errorf("expected 3-1, got %d-%d", w, l)
	}
	if got := season.WinRate(games); got != 0.75 {
		t.Errorf("expected win rate 0.75, got %f", got)
	}
	if got := season.WinRate(nil); got != 0 {
		t.Errorf("expected win rate 0 for no games, got %f", got)
	}
}

func TestSplitByDate(t *testing.T) {
	games := seasonOf(true, true, false, false)
	before, after := season.SplitByDate(games, "2024-01-03")
	if len(before) != 2 || len(after) != 2 {
		t.Fatalf("expected 2/2 split, got %d/%d", len(before), len(after))
	}
	// The split date itself belongs to the "after" side.
	if after[0].Date != "2024-01-03" {
		t.Errorf("expected 2024-01-03 in the after window, got %s", after[0].Date)
	}
}

func TestCaseExpectedMatches(t *testing.T) {
	c := season.Case{Expected: "Orange/Red"}
	for _, label := range []string{"Orange", "Red", "red"} {
		if !c.ExpectedMatches(label) {
			t.Errorf("expected %q to match %q", label, c.Expected)
		}
	}
	if c.ExpectedMatches("Green") {
		t.Errorf("did not expect Green to match %q", c.Expected)
	}
}
