package metrics_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Vishai/nba-integrity/pkg/metrics"
	"github.com/Vishai/nba-integrity/pkg/season"
)

func standingsTable(wins ...int) []season.Standing {
	out := make([]season.Standing, len(wins))
	for i, w := range wins {
		out[i] = season.Standing{
			TeamID:     int64(i + 1),
			TeamName:   fmt.Sprintf("Team %d", i+1),
			Conference: "East",
			Wins:       w,
			Losses:     82 - w,
			WinPct:     float64(w) / 82,
		}
	}
	return out
}

func uniformSeason(avg int) []season.Standing {
	return standingsTable(avg, avg, avg, avg, avg, avg, 50, 55)
}

func TestBuildContext_NoStandings(t *testing.T) {
	b := metrics.BuildContext(metrics.ContextInput{TeamID: 1})
	if b.Error == "" {
		t.Fatal("expected error marker without standings")
	}
}

func TestBuildContext_TeamNotFound(t *testing.T) {
	b := metrics.BuildContext(metrics.ContextInput{
		TeamID:    99,
		Standings: standingsTable(20, 30, 40),
	})
	if b.Error == "" {
		t.Fatal("expected error marker for an unknown team")
	}
	if !strings.Contains(b.Error, "99") {
		t.Errorf("expected error to name the team id, got %q", b.Error)
	}
}

func TestBuildContext_LeagueDeviation(t *testing.T) {
	// Current bottom six all at 18 wins; historical bottom-six averages
	// of 20, 22 and 24 give mean 22 and sample std 2.
	standings := standingsTable(18, 18, 18, 18, 18, 18, 40, 50)
	b := metrics.BuildContext(metrics.ContextInput{
		TeamID:    1,
		Standings: standings,
		HistoricalStandings: map[string][]season.Standing{
			"2019-20": uniformSeason(20),
			"2020-21": uniformSeason(22),
			"2021-22": uniformSeason(24),
		},
		BaselineSeasons: []string{"2019-20", "2020-21", "2021-22"},
	})
	if b.Error != "" {
		t.Fatalf("unexpected error: %s", b.Error)
	}

	lc := b.League
	if lc.TeamRecord != "18-64" {
		t.Errorf("expected record 18-64, got %s", lc.TeamRecord)
	}
	if len(lc.BottomTeams) != 6 {
		t.Fatalf("expected 6 bottom teams, got %d", len(lc.BottomTeams))
	}
	if lc.CurrentBottomAvg != 18 {
		t.Errorf("expected current bottom average 18, got %f", lc.CurrentBottomAvg)
	}
	if lc.HistoricalAvg != 22 || lc.HistoricalStd != 2 {
		t.Errorf("expected historical 22 +/- 2, got %f +/- %f", lc.HistoricalAvg, lc.HistoricalStd)
	}
	if lc.Deviation != -2 {
		t.Errorf("expected deviation -2, got %f", lc.Deviation)
	}
	if lc.SeasonsAnalyzed != 3 {
		t.Errorf("expected 3 seasons analyzed, got %d", lc.SeasonsAnalyzed)
	}
	if lc.TeamsUnder22 != 6 || !lc.LeagueWideFlag {
		t.Errorf("expected league-wide flag with 6 teams under 22 wins, got %d (flag %v)",
			lc.TeamsUnder22, lc.LeagueWideFlag)
	}
}

func TestBuildContext_MissingBaselineSeasonsSkipped(t *testing.T) {
	b := metrics.BuildContext(metrics.ContextInput{
		TeamID:          1,
		Standings:       standingsTable(18, 30, 40, 42, 44, 46, 48, 50),
		BaselineSeasons: []string{"2019-20", "2020-21"},
	})
	if b.League.SeasonsAnalyzed != 0 {
		t.Errorf("expected 0 seasons analyzed without historical data, got %d",
			b.League.SeasonsAnalyzed)
	}
	if b.League.Deviation != 0 {
		t.Errorf("expected zero deviation without a baseline, got %f", b.League.Deviation)
	}
}

func TestBuildContext_TemporalPattern(t *testing.T) {
	games := []season.Game{
		gameN(1, true), gameN(2, true), gameN(3, true), gameN(4, false),
		gameN(5, true), gameN(6, false), gameN(7, false), gameN(8, false),
	}
	b := metrics.BuildContext(metrics.ContextInput{
		TeamID:     1,
		Standings:  standingsTable(18, 30, 40),
		Games:      games,
		Milestones: season.Milestones{AllStarBreak: "2024-01-05"},
	})

	tp := b.Temporal
	if !tp.Present {
		t.Fatal("expected temporal pattern to be present")
	}
	if tp.PreBreakRecord != "3-1" || tp.PostBreakRecord != "1-3" {
		t.Errorf("expected 3-1 / 1-3 split, got %s / %s", tp.PreBreakRecord, tp.PostBreakRecord)
	}
	// 0.25 of 0.75 is a third.
	if tp.PostPctOfPre != 33.3 {
		t.Errorf("expected post pct of pre 33.3, got %f", tp.PostPctOfPre)
	}
	if !tp.Below50 || !tp.Flagged {
		t.Error("expected a below-50 flag for a collapsing second half")
	}
}

func TestBuildContext_TemporalAbsentWithoutBreakDate(t *testing.T) {
	b := metrics.BuildContext(metrics.ContextInput{
		TeamID:    1,
		Standings: standingsTable(18, 30, 40),
		Games:     []season.Game{gameN(1, true)},
	})
	if b.Temporal.Present {
		t.Error("expected temporal pattern to be absent without a break date")
	}
}

func TestBuildContext_CalendarPeriods(t *testing.T) {
	var games []season.Game
	for i := 1; i <= 12; i++ {
		games = append(games, gameN(i, i <= 4))
	}
	elim := &season.EliminationResult{
		Eliminated: true,
		Date:       "2024-01-09",
		GameNumber: 9,
	}
	b := metrics.BuildContext(metrics.ContextInput{
		TeamID:    1,
		Standings: standingsTable(18, 30, 40),
		Games:     games,
		Milestones: season.Milestones{
			TradeDeadline: "2024-01-04",
			AllStarBreak:  "2024-01-07",
		},
		Elimination: elim,
	})

	cc := b.Calendar
	for _, name := range []string{
		metrics.PeriodPreDeadline,
		metrics.PeriodDeadlineToBreak,
		metrics.PeriodBreakToElim,
		metrics.PeriodPostElim,
	} {
		if _, ok := cc.Periods[name]; !ok {
			t.Errorf("expected period %q in calendar table", name)
		}
	}
	if _, ok := cc.Periods[metrics.PeriodPostBreak]; ok {
		t.Error("did not expect the open-ended post-break period when elimination is known")
	}

	pre := cc.Periods[metrics.PeriodPreDeadline]
	if pre.Games != 3 || pre.Record != "3-0" {
		t.Errorf("expected a 3-0 pre-deadline period, got %d games at %s", pre.Games, pre.Record)
	}
	// The date split puts the elimination-day game itself in the
	// post-elimination period.
	post := cc.Periods[metrics.PeriodPostElim]
	if post.Games != 4 || post.Record != "0-4" {
		t.Errorf("expected a 0-4 post-elimination period, got %d games at %s", post.Games, post.Record)
	}
}

func TestBuildContext_CalendarOmitsUnknownMilestones(t *testing.T) {
	games := []season.Game{gameN(1, true), gameN(2, false)}
	b := metrics.BuildContext(metrics.ContextInput{
		TeamID:    1,
		Standings: standingsTable(18, 30, 40),
		Games:     games,
	})
	if len(b.Calendar.Periods) != 0 {
		t.Errorf("expected no calendar periods without milestones, got %d", len(b.Calendar.Periods))
	}
}
