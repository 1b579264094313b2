// Package season defines the core data model for integrity-index analysis.
// These types are the shared vocabulary across extraction, scoring, and
// storage. Dates are ISO "2006-01-02" strings so records stay directly
// JSON-comparable with the season exports they are loaded from.
package season

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingData marks a structural absence of required raw records
// (game logs, player logs, standings). Callers degrade per component
// rather than aborting the whole pipeline.
var ErrMissingData = errors.New("missing data")

// Case is one team-season under evaluation. Immutable once created;
// built-in cases ship with the binary, user-added cases live in the
// registry.
type Case struct {
	ID         string `json:"id" yaml:"id"`
	TeamID     int64  `json:"team_id" yaml:"team_id"`
	TeamAbbr   string `json:"team_abbr" yaml:"team_abbr"`
	TeamName   string `json:"team_name" yaml:"team_name"`
	Season     string `json:"season" yaml:"season"` // e.g. "2023-24"
	Archetype  string `json:"archetype,omitempty" yaml:"archetype,omitempty"`
	Expected   string `json:"expected_classification,omitempty" yaml:"expected_classification,omitempty"`
	CutoffSeed int    `json:"playoff_cutoff_seed" yaml:"playoff_cutoff_seed"` // 8 or 10
	BuiltIn    bool   `json:"built_in,omitempty" yaml:"-"`
}

// ExpectedMatches reports whether a classification label satisfies the
// case's expected classification. Expected values may name more than one
// acceptable label, delimited by "/" (e.g. "Orange/Red").
func (c Case) ExpectedMatches(label string) bool {
	if c.Expected == "" {
		return false
	}
	for _, want := range strings.Split(c.Expected, "/") {
		if strings.EqualFold(strings.TrimSpace(want), label) {
			return true
		}
	}
	return false
}

// Efficiency holds per-game advanced ratings. Net = Offensive - Defensive.
type Efficiency struct {
	Offensive float64 `json:"off_rating"`
	Defensive float64 `json:"def_rating"`
	Net       float64 `json:"net_rating"`
	Pace      float64 `json:"pace,omitempty"`
}

// Game is one game for one team, ordered by date. Number is a dense
// 1-based sequence: for N games the numbers run 1..N with no gaps.
// Ratings is nil when advanced box scores are unavailable for the game.
type Game struct {
	GameID    string      `json:"game_id"`
	Date      string      `json:"game_date"`
	Number    int         `json:"game_number"`
	Won       bool        `json:"won"`
	Points    int         `json:"pts"`
	OppPoints int         `json:"opp_pts,omitempty"`
	Ratings   *Efficiency `json:"ratings,omitempty"`
}

// PlayerGame is one player's appearance (or qualifying non-appearance)
// in one game. Minutes <= 0 with a record present counts as a DNP.
// NetRating is nil when player box scores are unavailable.
type PlayerGame struct {
	PlayerID   int64    `json:"player_id"`
	PlayerName string   `json:"player_name"`
	GameID     string   `json:"game_id"`
	Date       string   `json:"game_date"`
	Minutes    float64  `json:"minutes"`
	Points     int      `json:"pts"`
	Won        bool     `json:"won"`
	NetRating  *float64 `json:"net_rating,omitempty"`
}

// Standing is one team's season-end line in the standings table.
type Standing struct {
	TeamID     int64   `json:"team_id"`
	TeamName   string  `json:"team_name"`
	Conference string  `json:"conference"` // "East" or "West"
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinPct     float64 `json:"win_pct"`
}

// Milestones carries the season's calendar anchors. Any field may be
// empty for a season, in which case the periods it bounds are omitted
// from calendar analysis rather than defaulted.
type Milestones struct {
	AllStarBreak  string `json:"all_star_break,omitempty" yaml:"all_star_break,omitempty"`
	TradeDeadline string `json:"trade_deadline,omitempty" yaml:"trade_deadline,omitempty"`
}

// SortGames orders games chronologically and renumbers them 1..N.
// Extraction relies on the dense game-number invariant, so every load
// path normalizes through here.
func SortGames(games []Game) {
	sort.Slice(games, func(i, j int) bool {
		if games[i].Date != games[j].Date {
			return games[i].Date < games[j].Date
		}
		return games[i].GameID < games[j].GameID
	})
	for i := range games {
		games[i].Number = i + 1
	}
}

// Record returns the win-loss totals for a set of games.
func Record(games []Game) (wins, losses int) {
	for _, g := range games {
		if g.Won {
			wins++
		} else {
			losses++
		}
	}
	return wins, losses
}

// WinRate returns the fraction of games won, or 0 for an empty slice.
func WinRate(games []Game) float64 {
	if len(games) == 0 {
		return 0
	}
	w, _ := Record(games)
	return float64(w) / float64(len(games))
}

// SplitByDate partitions games into those strictly before the date and
// those on or after it.
func SplitByDate(games []Game, date string) (before, after []Game) {
	for _, g := range games {
		if g.Date < date {
			before = append(before, g)
		} else {
			after = append(after, g)
		}
	}
	return before, after
}

// FormatRecord renders "W-L".
func FormatRecord(wins, losses int) string {
	return fmt.Sprintf("%d-%d", wins, losses)
}
